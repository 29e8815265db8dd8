package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/sticker-tools-mcp/internal/config"
	"github.com/ironsheep/sticker-tools-mcp/internal/logging"
	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "sticker",
		Short:         "Turn images with a transparent background into stickers",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	newLogger := func() (*zap.Logger, error) {
		return logging.New("release", logLevel)
	}

	root.AddCommand(makeCmd(newLogger))
	root.AddCommand(boundsCmd())
	return root
}

func makeCmd(newLogger func() (*zap.Logger, error)) *cobra.Command {
	settings := config.DefaultStickerSettings()

	cmd := &cobra.Command{
		Use:     "make <input> <output>",
		Short:   "draw an outline and drop shadow around the subject and save a PNG",
		Args:    cobra.ExactArgs(2),
		Example: "make --border-size 12 --border-color '#ffcc00' photo.png sticker.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logging.Sync(logger)

			cfg, err := settings.Build()
			if err != nil {
				return err
			}

			fin, fout := args[0], args[1]
			return apply(fin, fout, func(img *image.NRGBA) (*image.NRGBA, error) {
				out, err := sticker.Render(img, cfg)
				if err != nil {
					return nil, err
				}
				logger.Info("sticker created",
					zap.String("input", fin),
					zap.String("output", fout),
					zap.Int("width", out.Rect.Dx()),
					zap.Int("height", out.Rect.Dy()))
				return out, nil
			})
		},
	}

	addSettingsFlags(cmd, &settings)
	return cmd
}

func boundsCmd() *cobra.Command {
	threshold := config.DefaultStickerSettings().AlphaThreshold

	cmd := &cobra.Command{
		Use:     "bounds <input>",
		Short:   "print the subject bounding box and coverage as JSON",
		Args:    cobra.ExactArgs(1),
		Example: "bounds --alpha-threshold 128 photo.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := open(args[0])
			if err != nil {
				return err
			}
			info, err := sticker.Subject(img, threshold)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}

	cmd.Flags().IntVar(&threshold, "alpha-threshold", threshold, "alpha a pixel must exceed to count as subject")
	return cmd
}

// addSettingsFlags binds one flag per sticker setting, named after its config
// key with dashes.
func addSettingsFlags(cmd *cobra.Command, s *config.StickerSettings) {
	fs := cmd.Flags()
	fs.IntVar(&s.AlphaThreshold, "alpha-threshold", s.AlphaThreshold, "alpha a pixel must exceed to count as subject (0-255)")
	fs.IntVarP(&s.BorderSize, "border-size", "b", s.BorderSize, "outline width in pixels")
	fs.StringVarP(&s.BorderColor, "border-color", "c", s.BorderColor, "outline color (#RRGGBB or #RRGGBBAA)")
	fs.Float64Var(&s.BorderBlur, "border-blur", s.BorderBlur, "gaussian sigma of the outline edge")
	fs.StringVar(&s.ShadowColor, "shadow-color", s.ShadowColor, "shadow color (#RRGGBB or #RRGGBBAA)")
	fs.Float64VarP(&s.ShadowBlur, "shadow-blur-strength", "s", s.ShadowBlur, "gaussian sigma of the drop shadow")
	fs.IntVarP(&s.Padding, "padding", "p", s.Padding, "margin kept around the subject when cropping")
	fs.StringVar(&s.BgColor, "bg-color", s.BgColor, "background color used with --bg-transparent=false")
	fs.BoolVar(&s.BgTransparent, "bg-transparent", s.BgTransparent, "keep the area outside the sticker transparent")
	fs.BoolVar(&s.Crop, "crop", s.Crop, "crop to the subject plus padding")
	fs.StringVarP(&s.Kernel, "kernel", "k", s.Kernel, "outline shape: square or disk")
}

// open decodes an input file the same way the HTTP and MCP callers do,
// including EXIF orientation and the pixel budget.
func open(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sticker.ErrDecode, err)
	}
	img, err := sticker.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// apply reads fin, runs process and writes the result to fout. The output is
// always PNG so transparency survives.
func apply(fin, fout string, process func(*image.NRGBA) (*image.NRGBA, error)) error {
	if ext := strings.ToLower(fout); !strings.HasSuffix(ext, ".png") {
		return fmt.Errorf("output %s: stickers are saved as .png", fout)
	}

	in, err := open(fin)
	if err != nil {
		return err
	}

	result, err := process(in)
	if err != nil {
		return err
	}

	if err := imgio.Save(fout, result, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save sticker: %w", err)
	}
	return nil
}
