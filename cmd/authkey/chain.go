package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/authenticity-key/ark"
	"github.com/AlexZinkM/authenticity-key/internal/client"
	"github.com/AlexZinkM/authenticity-key/internal/common"
	"github.com/AlexZinkM/authenticity-key/internal/crypto"
	"github.com/AlexZinkM/authenticity-key/internal/issuer"
	"github.com/AlexZinkM/authenticity-key/verification"

	"github.com/spf13/cobra"
)

// connect builds an engine connected to the configured network.
// The returned function waits for pending rebroadcasts and releases the issuer registry.
func (c *cli) connect(ctx context.Context) (*verification.Engine, func(), error) {
	gateway, err := client.NewArkClient(client.Options{
		Timeout:        c.cfg.RequestTimeout,
		MaxRetries:     c.cfg.MaxRetries,
		RetryBackoff:   c.cfg.RetryBackoff,
		BroadcastPeers: c.cfg.BroadcastPeers,
		Logger:         c.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	release := func() { _ = gateway.Wait(context.Background()) }
	opts := []verification.Option{verification.WithLogger(c.logger)}
	registry, err := issuer.Open(ctx, c.cfg.IssuerRedisURL, c.cfg.IssuerRedisKey, c.cfg.TrustedIssuers)
	if err != nil {
		return nil, nil, err
	}
	if registry != nil {
		release = func() {
			_ = gateway.Wait(context.Background())
			_ = registry.Close()
		}
		opts = append(opts, verification.WithIssuerRegistry(registry))
	}

	engine := verification.NewEngine(gateway, opts...)
	if _, err := engine.Connect(ctx, c.cfg.Network, c.cfg.Node); err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", c.cfg.Network, err)
	}
	return engine, release, nil
}

// explain appends the cause to the opaque engine failure
func explain(err error) error {
	var f *verification.Failure
	if errors.As(err, &f) && f.Cause() != nil {
		return fmt.Errorf("%w: %w", err, f.Cause())
	}
	return err
}

func (c *cli) registerCmd() *cobra.Command {
	var (
		seed         string
		secondSecret string
		askSecond    bool
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Generate a verification key and store it on the chain",
		Long: `register generates a verification key, signs it and stores it in a
self addressed transaction (amount 0.00000001 ARK, fee 0.1 ARK).
Print the transaction id and signature on the product label.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			passphrase, err := c.secret(seed, "passphrase")
			if err != nil {
				return err
			}
			if askSecond && secondSecret == "" {
				if secondSecret, err = c.prompt("second passphrase"); err != nil {
					return err
				}
			}

			if dryRun {
				return c.previewRegistration(cmd, passphrase, secondSecret)
			}

			engine, release, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			reg, err := engine.AddKey(cmd.Context(), passphrase, secondSecret)
			if err != nil {
				return explain(err)
			}
			return printJSON(cmd.OutOrStdout(), reg)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "wallet passphrase (prompted when empty)")
	cmd.Flags().StringVar(&secondSecret, "second-secret", "", "second passphrase of the wallet")
	cmd.Flags().BoolVar(&askSecond, "ask-second-secret", false, "prompt for the second passphrase")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the signed transaction without connecting or broadcasting")
	return cmd
}

// registrationPreview is the dry-run output of register
type registrationPreview struct {
	TransactionID   string    `json:"transactionId"`
	Signature       string    `json:"signature"`
	VerificationKey string    `json:"verificationKey"`
	Sender          string    `json:"senderPublicKey"`
	Recipient       string    `json:"recipientId"`
	Amount          string    `json:"amount"` // ARK
	Fee             string    `json:"fee"`    // ARK
	Timestamp       time.Time `json:"timestamp"`
}

func (c *cli) previewRegistration(cmd *cobra.Command, passphrase, secondSecret string) error {
	version, err := c.version()
	if err != nil {
		return err
	}

	at := time.Now()
	token, err := crypto.GenerateVerificationToken(passphrase, at)
	if err != nil {
		return err
	}
	signature, err := crypto.Sign(token, passphrase)
	if err != nil {
		return err
	}
	tx, err := ark.BuildRegistrationTransaction(passphrase, secondSecret, token, version, at)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), registrationPreview{
		TransactionID:   tx.ID,
		Signature:       signature,
		VerificationKey: token,
		Sender:          tx.SenderPublicKey,
		Recipient:       tx.RecipientID,
		Amount:          common.ArktoshiToARK(tx.Amount),
		Fee:             common.ArktoshiToARK(tx.Fee),
		Timestamp:       common.TimeFromArkTimestamp(tx.Timestamp),
	})
}

func (c *cli) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <transaction-id> <signature>",
		Short: "Check a product signature against its registration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, release, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			result, err := engine.VerifySignature(cmd.Context(), args[0], args[1])
			if err != nil {
				return explain(err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func (c *cli) pubkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey <address>",
		Short: "Look up the public key of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, release, err := c.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			publicKey, err := engine.LookupPublicKey(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), publicKey)
			return err
		},
	}
}
