package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/sketchdraw/internal/imaging"
	"github.com/ironsheep/sketchdraw/internal/studio"
)

type drawOptions struct {
	output string
	color  string
	sketch bool
	save   bool
	title  string
}

func newDrawCmd(opts *options) *cobra.Command {
	var d drawOptions

	cmd := &cobra.Command{
		Use:   "draw IMAGE",
		Short: "Convert an image to line art",
		Long: `Convert an image to line art: traced edges become polylines and dark areas
are shaded with dots, centered on the canvas.

The drawing is written to --output (default IMAGE_lineart.png next to the
input). With --save it is stored in the drawing history instead.`,
		Example: `  sketchdraw draw cat.jpg
  sketchdraw draw cat.jpg --sketch --color "#2a4d8f" -o cat.png
  sketchdraw draw cat.jpg --save --title "Cat"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()
			start := time.Now()

			st, err := opts.openStudio(ctx)
			if err != nil {
				return err
			}
			if d.color != "" {
				if _, err := st.ChooseColor(d.color); err != nil {
					return noticeError(err)
				}
			}
			if _, err := st.LoadImage(args[0]); err != nil {
				return noticeError(err)
			}
			if d.sketch {
				if _, err := st.ConvertToSketch(); err != nil {
					return noticeError(err)
				}
			}
			res, err := st.AutoDraw()
			if err != nil {
				return noticeError(err)
			}
			if res.Polylines == 0 && res.Dots == 0 {
				printWarning(out, "Nothing to draw: no edges or dark areas found")
			}

			if d.save {
				rec, err := st.Save(d.title)
				if err != nil {
					return noticeError(err)
				}
				printSuccess(out, "Saved %q", rec.Title)
				printFile(out, rec.Path)
			} else {
				path := d.output
				if path == "" {
					path = derivedPath(args[0], "lineart")
				}
				if err := imaging.SavePNG(path, st.Render()); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printSuccess(out, "Drew %s", filepath.Base(args[0]))
				printFile(out, path)
			}
			printDetail(out, "%d polylines · %d dots", res.Polylines, res.Dots)
			logger.Debug("Draw finished", "elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&d.output, "output", "o", "", "output PNG path")
	cmd.Flags().StringVar(&d.color, "color", "", "drawing color as #rrggbb (default from config)")
	cmd.Flags().BoolVar(&d.sketch, "sketch", false, "convert to a pencil sketch before drawing")
	cmd.Flags().BoolVar(&d.save, "save", false, "save to the drawing history instead of --output")
	cmd.Flags().StringVar(&d.title, "title", "", "history title when saving (default \"Drawing N\")")
	cmd.MarkFlagsMutuallyExclusive("output", "save")

	return cmd
}

func newSketchCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sketch IMAGE",
		Short: "Convert an image to a pencil sketch",
		Long: `Convert an image to a grayscale pencil sketch by color-dodging it with a
blurred negative. The result is written to --output (default
IMAGE_sketch.png next to the input).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			st, err := opts.openStudio(ctx)
			if err != nil {
				return err
			}
			if _, err := st.LoadImage(args[0]); err != nil {
				return noticeError(err)
			}
			info, err := st.ConvertToSketch()
			if err != nil {
				return noticeError(err)
			}

			path := output
			if path == "" {
				path = derivedPath(args[0], "sketch")
			}
			if err := imaging.SavePNG(path, st.Image()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printSuccess(out, "Sketched %s (%dx%d)", filepath.Base(args[0]), info.Width, info.Height)
			printFile(out, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path")
	return cmd
}

// derivedPath returns input with its extension replaced by _suffix.png.
func derivedPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_" + suffix + ".png"
}

// noticeError turns a studio error into the message shown to the user,
// keeping the original error for errors.Is.
func noticeError(err error) error {
	msg := studio.NoticeFor(err).Message
	if prefix, ok := strings.CutSuffix(msg, err.Error()); ok {
		return fmt.Errorf("%s%w", prefix, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
