package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"capstan/internal/config"
	"capstan/internal/language"
	"capstan/internal/ledger"
	"capstan/internal/logging"
	"capstan/internal/preflight"
	"capstan/internal/services/transcriber"
	"capstan/internal/session"
	"capstan/internal/style"
	"capstan/internal/workspace"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string
	var modelFlag string
	var stylePreset string
	var outputDir string
	var noRender bool
	var downloadVideo bool
	var copyToClipboard bool
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "process <video>",
		Short: "Upload a video and wait for finished captions",
		Long: `Process uploads a video to the captioning backend, follows the job
until it finishes, and writes the resulting SRT captions into the
workspace. The backend can also burn the captions into a copy of the
video; pass --download-video to fetch that copy when it exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := strings.TrimSpace(args[0])
			if source == "" {
				return errors.New("video path is required")
			}
			source, err := filepath.Abs(source)
			if err != nil {
				return fmt.Errorf("resolve video path: %w", err)
			}
			info, err := os.Stat(source)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("video file %q not found", source)
				}
				return fmt.Errorf("stat video: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("video path %q is a directory", source)
			}

			languageKey := ""
			if languageFlag != "" {
				key, err := language.Normalize(languageFlag)
				if err != nil {
					return err
				}
				languageKey = key
			}
			if modelFlag != "" && !transcriber.ValidModel(modelFlag) {
				return fmt.Errorf("unknown model %q (run `capstan models` for the list)", modelFlag)
			}
			var presetPatch *style.Patch
			if stylePreset != "" {
				patch, err := style.LoadPreset(stylePreset)
				if err != nil {
					return err
				}
				presetPatch = &patch
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if !skipChecks {
				checks := []preflight.Result{
					preflight.CheckWorkspace("Workspace directory", cfg.Paths.WorkspaceDir),
					preflight.CheckDiskSpace("Disk space", cfg.Paths.WorkspaceDir),
					preflight.CheckBackend(cmd.Context(), cfg),
				}
				if !preflight.Passed(checks) {
					for _, check := range checks {
						fmt.Fprintln(out, renderCheckLine(check, colorize))
					}
					return errors.New("preflight checks failed (--skip-checks to bypass)")
				}
			}

			ws, err := workspace.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer ws.Release()

			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job history: %w", err)
			}
			defer store.Close()

			client := transcriber.NewConfiguredClient(cfg)
			sess := session.New(cfg, client, session.WithRecorder(store), session.WithLogger(logger))

			if languageKey != "" {
				sess.Dispatch(session.SetLanguage{Value: languageKey})
			}
			if modelFlag != "" {
				sess.Dispatch(session.SetModel{Value: modelFlag})
			}
			if noRender {
				sess.Dispatch(session.SetRenderVideo{Value: false})
			}
			if presetPatch != nil {
				sess.Dispatch(session.UpdateStyle{Patch: *presetPatch})
				if err := sess.State().Style.Validate(); err != nil {
					return fmt.Errorf("style preset %s: %w", stylePreset, err)
				}
			}

			sess.Dispatch(session.SetVideo{Video: session.VideoRef{
				Path:      source,
				Title:     deriveTitle(source),
				SizeBytes: info.Size(),
			}})

			state := sess.State()
			fmt.Fprintf(out, "Uploading %s (%s) for %s captions using the %s model\n",
				filepath.Base(source),
				humanize.Bytes(uint64(info.Size())),
				language.Display(state.Language),
				state.Model,
			)

			events, err := sess.StartProcessing(cmd.Context())
			if err != nil {
				return err
			}
			terminal := consumeEvents(cmd, events, colorize)
			if terminal.Kind != transcriber.EventCompleted {
				message := terminal.Message
				if message == "" {
					message = "processing failed"
				}
				return errors.New(message)
			}

			state = sess.State()
			now := time.Now()

			exportPath := ws.ExportPath(state.Video.Title, now)
			if outputDir != "" {
				expanded, err := config.ExpandPath(outputDir)
				if err != nil {
					return err
				}
				exportPath = filepath.Join(expanded, filepath.Base(exportPath))
			}
			captionText := sess.ExportCaptionText()
			if err := ws.WriteExport(exportPath, captionText); err != nil {
				return err
			}

			clipboardNote := ""
			if copyToClipboard {
				if err := clipboard.WriteAll(captionText); err != nil {
					logger.Warn("clipboard copy failed", logging.Error(err))
					clipboardNote = "copy failed"
				} else {
					clipboardNote = "copied"
				}
			}

			downloadedPath := ""
			downloadedSize := ""
			if downloadVideo {
				if state.Output == nil || !state.Output.VideoCreated {
					fmt.Fprintln(out, "No rendered video available to download")
				} else {
					if err := ws.EnsureDownloadSpace(); err != nil {
						return err
					}
					target := ws.DownloadPath(state.Video.Title, now, filepath.Ext(state.Output.VideoPath))
					file, err := os.Create(target)
					if err != nil {
						return fmt.Errorf("create video file: %w", err)
					}
					written, err := client.DownloadVideo(cmd.Context(), state.Job.ID, file)
					closeErr := file.Close()
					if err != nil {
						_ = os.Remove(target)
						return err
					}
					if closeErr != nil {
						return fmt.Errorf("close video file: %w", closeErr)
					}
					downloadedPath = target
					downloadedSize = humanize.Bytes(uint64(written))
				}
			}

			rows := [][]string{
				{"Video", state.Video.Title},
				{"Job", state.Job.ID},
				{"Language", language.Display(state.Language)},
				{"Model", state.Model},
				{"Cues", strconv.Itoa(len(state.Cues))},
				{"Captions", exportPath},
			}
			if clipboardNote != "" {
				rows = append(rows, []string{"Clipboard", clipboardNote})
			}
			if downloadedPath != "" {
				rows = append(rows, []string{"Video file", fmt.Sprintf("%s (%s)", downloadedPath, downloadedSize)})
			} else if state.Output != nil && state.Output.VideoCreated {
				rows = append(rows, []string{"Rendered video", "on server: " + state.Output.VideoPath})
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language: auto, english, hindi, or hinglish")
	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Whisper model size (run `capstan models` for the list)")
	cmd.Flags().StringVar(&stylePreset, "style-preset", "", "YAML style preset for burned-in captions")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the exported captions (default: workspace)")
	cmd.Flags().BoolVar(&noRender, "no-render", false, "Skip burning captions into a copy of the video")
	cmd.Flags().BoolVar(&downloadVideo, "download-video", false, "Download the rendered video into the workspace")
	cmd.Flags().BoolVar(&copyToClipboard, "clipboard", false, "Copy the finished captions to the clipboard")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip preflight checks before uploading")

	return cmd
}
