package transcriber

// ModelOption describes one whisper model size accepted by the backend.
type ModelOption struct {
	ID          string
	Name        string
	SizeLabel   string
	Description string
}

// Models lists the accepted whisper model sizes, smallest first.
func Models() []ModelOption {
	return []ModelOption{
		{ID: "tiny", Name: "Tiny", SizeLabel: "39 MB", Description: "Fastest, lowest accuracy"},
		{ID: "base", Name: "Base", SizeLabel: "74 MB", Description: "Good balance of speed and accuracy"},
		{ID: "small", Name: "Small", SizeLabel: "244 MB", Description: "Better accuracy, slower"},
		{ID: "medium", Name: "Medium", SizeLabel: "769 MB", Description: "High accuracy, slow"},
		{ID: "large", Name: "Large", SizeLabel: "1.5 GB", Description: "Best accuracy, slowest"},
	}
}

// ValidModel reports whether id names a known model size.
func ValidModel(id string) bool {
	for _, option := range Models() {
		if option.ID == id {
			return true
		}
	}
	return false
}
