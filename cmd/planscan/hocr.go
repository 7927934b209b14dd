package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gardar/planscan/pkg/hocr"
	"github.com/gardar/planscan/pkg/ocr"
	"github.com/gardar/planscan/pkg/raster"
)

func newHOCRCmd(a *app) *cobra.Command {
	var output, engineName string
	var textOnly bool

	cmd := &cobra.Command{
		Use:   "hocr <input>",
		Short: "Run OCR only and write the hOCR document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if engineName != "" {
				a.cfg.OCR.Engine = engineName
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			engine, err := newEngine(a.cfg, nil)
			if err != nil {
				return err
			}

			page, err := raster.Load(cmd.Context(), args[0], a.cfg.Raster.DPI)
			if err != nil {
				return err
			}

			var p hocr.Page
			if hr, ok := engine.(ocr.HOCRRecognizer); ok {
				p, err = hr.RecognizeHOCR(cmd.Context(), page)
			} else {
				frags, rerr := engine.Recognize(cmd.Context(), page)
				err = rerr
				p = hocr.FromFragments(frags, page.Width(), page.Height(), page.Path)
			}
			if err != nil {
				return fmt.Errorf("OCR failed: %w", err)
			}

			doc := hocr.NewDocument("planscan "+a.cfg.OCR.Engine, a.cfg.OCR.Language, p)
			var data string
			if textOnly {
				data = hocr.ExtractHOCRText(doc)
			} else if data, err = hocr.GenerateHOCRDocument(doc); err != nil {
				return err
			}
			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), data)
				return err
			}
			return os.WriteFile(output, []byte(data), 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&engineName, "engine", "", "OCR engine (overrides config)")
	cmd.Flags().BoolVar(&textOnly, "text", false, "Write the recognized text instead of hOCR")
	return cmd
}
