package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"recognition-bot/internal/domain/entity"
)

var recognizeCaller string

type fileResult struct {
	File        string              `json:"file"`
	Recognition *entity.Recognition `json:"recognition,omitempty"`
	Error       string              `json:"error,omitempty"`
}

var recognizeCmd = &cobra.Command{
	Use:   "recognize <image>...",
	Short: "Распознать файлы и вывести результат в JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		bar := progressbar.NewOptions(len(args),
			progressbar.OptionSetDescription("🔍 Recognizing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)

		results := make([]fileResult, 0, len(args))
		failed := 0
		for _, path := range args {
			if ctx.Err() != nil {
				break
			}

			res := fileResult{File: filepath.Base(path)}
			rec, err := rt.app.RecognitionService.RecognizeFile(ctx, path, recognizeCaller)
			res.Recognition = rec
			if err != nil {
				failed++
				res.Error = err.Error()
				slog.Debug("recognize: file failed", "file", path, "error", err)
			}

			results = append(results, res)
			_ = bar.Add(1)
		}
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return ctx.Err()
	},
}

func init() {
	recognizeCmd.Flags().StringVar(&recognizeCaller, "caller", "cli", "caller id stored with each recognition")
}
