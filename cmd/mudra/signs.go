package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/signs"
	"github.com/spf13/cobra"
)

var signsCmd = &cobra.Command{
	Use:   "signs",
	Short: "Generate a sign image for every gesture label",
	RunE:  runSigns,
}

func init() {
	signsCmd.Flags().String("signs", "", "output directory (SIGNS_DIR)")
	rootCmd.AddCommand(signsCmd)
}

func runSigns(cmd *cobra.Command, args []string) error {
	labels, err := classifier.LoadLabels(cfg.LabelsPath)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", cfg.LabelsPath).Info("[mudra.signs] label file not found, using default gestures")
		labels = signs.DefaultGestures
	} else if err != nil {
		return err
	}

	paths, err := signs.Generate(cfg.SignsDir, labels)
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return err
}
