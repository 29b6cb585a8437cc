package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/authenticity-key/internal/label"
	"github.com/AlexZinkM/authenticity-key/internal/model"
	"github.com/AlexZinkM/authenticity-key/internal/validate"

	"github.com/spf13/cobra"
)

func (c *cli) labelCmd() *cobra.Command {
	var (
		out       string
		size      int
		publicURL string
	)

	cmd := &cobra.Command{
		Use:   "label <transaction-id> <signature>",
		Short: "Write the QR code of a product verify link to a PNG file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.VerifyRequest{TransactionID: args[0], Signature: args[1]}
			if err := validate.Struct(req); err != nil {
				return err
			}

			base := c.cfg.PublicURL
			if publicURL != "" {
				base = publicURL
			}
			link, err := label.VerifyURL(base, req.TransactionID, req.Signature)
			if err != nil {
				return err
			}

			png, err := label.PNG(link, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "label.png", "output file")
	cmd.Flags().IntVar(&size, "size", label.DefaultSize, "image size in pixels")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "verify site base URL (default: PUBLIC_URL)")
	return cmd
}
