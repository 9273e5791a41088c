package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayush/krishi-mitr/backend/internal/models"
	"github.com/ayush/krishi-mitr/backend/internal/pricing"
	"github.com/ayush/krishi-mitr/backend/internal/validation"
)

func newPricesCommand() *cobra.Command {
	pricesCmd := &cobra.Command{
		Use:   "prices",
		Short: "Manage the reference price table",
	}

	pricesCmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: `Replace all prices with the contents of a {"prices": [...]} JSON file`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prices, err := readPricesFile(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if err := pricing.ReplaceAll(cmd.Context(), a.store, prices); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d prices\n", len(prices))
			return nil
		},
	})

	pricesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the current price table as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			prices, err := pricing.All(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "    ")
			return enc.Encode(prices)
		},
	})

	return pricesCmd
}

func readPricesFile(path string) ([]models.Price, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var req models.UpdatePricesRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := validation.Struct(req, "Prices data required"); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return *req.Prices, nil
}

func newSnapshotCommand() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy the document to or from the MinIO snapshot",
	}

	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the current document to MinIO",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if a.minio == nil {
				return errors.New("MINIO_ENDPOINT is not configured")
			}

			n, err := a.store.Export(cmd.Context(), a.minio)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d bytes\n", n)
			return nil
		},
	})

	snapshotCmd.AddCommand(&cobra.Command{
		Use:   "restore",
		Short: "Replace the document with the MinIO snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if a.minio == nil {
				return errors.New("MINIO_ENDPOINT is not configured")
			}

			doc, err := a.store.Import(cmd.Context(), a.minio)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d users, %d crops, %d prices\n",
				len(doc.Users), len(doc.Crops), len(doc.Prices))
			return nil
		},
	})

	return snapshotCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "krishi-mitr %s\n", version)
		},
	}
}
