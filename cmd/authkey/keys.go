package main

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/authenticity-key/internal/crypto"

	"github.com/spf13/cobra"
)

func (c *cli) version() (byte, error) {
	version, ok := crypto.NetworkVersion(c.cfg.Network)
	if !ok {
		return 0, fmt.Errorf("unknown network %q", c.cfg.Network)
	}
	return version, nil
}

func (c *cli) deriveCmd() *cobra.Command {
	var seed string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Show the public key and address of a passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, err := c.secret(seed, "passphrase")
			if err != nil {
				return err
			}
			version, err := c.version()
			if err != nil {
				return err
			}

			keys, err := crypto.DeriveKeyPair(passphrase, version)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"network":   c.cfg.Network,
				"publicKey": keys.PublicKey,
				"address":   keys.Address,
			})
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "wallet passphrase (prompted when empty)")
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	var (
		seed   string
		millis int64
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a verification key without registering it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, err := c.secret(seed, "passphrase")
			if err != nil {
				return err
			}

			at := time.Now()
			if millis > 0 {
				at = time.UnixMilli(millis)
			}
			token, err := crypto.GenerateVerificationToken(passphrase, at)
			if err != nil {
				return err
			}
			signature, err := crypto.Sign(token, passphrase)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"verificationKey": token,
				"signature":       signature,
			})
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "wallet passphrase (prompted when empty)")
	cmd.Flags().Int64Var(&millis, "at", 0, "unix time in milliseconds (default: now)")
	return cmd
}

func (c *cli) signCmd() *cobra.Command {
	var seed string

	cmd := &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message with a passphrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, err := c.secret(seed, "passphrase")
			if err != nil {
				return err
			}
			signature, err := crypto.Sign(args[0], passphrase)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signature)
			return err
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "wallet passphrase (prompted when empty)")
	return cmd
}
