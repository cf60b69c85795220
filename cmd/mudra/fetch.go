package main

import (
	"fmt"
	"os"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch-model",
	Short: "Download the ONNX model if it is not present",
	RunE: func(cmd *cobra.Command, args []string) error {
		downloaded, err := classifier.EnsureModel(cmd.Context(), cfg.ModelPath, cfg.ModelURL, os.Stderr)
		if err != nil {
			return err
		}
		if downloaded {
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %s\n", cfg.ModelPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already present\n", cfg.ModelPath)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("model-url", "", "model download URL (MODEL_URL)")
	rootCmd.AddCommand(fetchCmd)
}
