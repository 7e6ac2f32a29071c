package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"backdrop-api/internal/client"
	"backdrop-api/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <file>",
	Short: "Remove the background from an image",
	Long: `Upload an image and write the result next to it.

Examples:
  backdrop remove photo.jpg                 # auto method, writes photo_nobg.png
  backdrop remove photo.jpg --method local  # pass-through
  backdrop remove photo.jpg -o -            # write the result to stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().StringP("method", "m", "", "removal method (auto, api, advanced, jimp, simple, local)")
	removeCmd.Flags().StringP("type", "t", "", "media type (image or video, default detected)")
	removeCmd.Flags().StringP("out", "o", "", "output path, - for stdout (default <name>_nobg.<ext>)")
}

func runRemove(cmd *cobra.Command, args []string) error {
	method, _ := cmd.Flags().GetString("method")
	kind, _ := cmd.Flags().GetString("type")
	out, _ := cmd.Flags().GetString("out")

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	contentType := mimetype.Detect(data).String()
	if kind == "" {
		if k, ok := domain.KindFromContentType(contentType); ok {
			kind = string(k)
		}
	}

	session := client.NewSession(api)
	session.Select(client.Upload{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
		Type:        domain.MediaKind(kind),
		Method:      domain.Method(strings.ToLower(method)),
	})

	result, err := session.Process(cmd.Context())
	if err != nil {
		return err
	}

	if out == "-" {
		_, err := cmd.OutOrStdout().Write(result.Data)
		return err
	}

	if out == "" {
		name := result.Filename
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_nobg.png"
		}
		out = filepath.Join(filepath.Dir(path), filepath.Base(name))
	}

	if err := os.WriteFile(out, result.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s (%s, %d bytes)\n", path, out, result.Strategy, len(result.Data))
	return nil
}
