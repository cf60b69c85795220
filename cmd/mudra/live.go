package main

import (
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/signs"
	"github.com/spf13/cobra"
)

var motionThreshold float64

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Recognize gestures from a camera in a window",
	Long:  "Opens the camera, shows the mirrored feed with the hand skeleton, the smoothed label and its sign image. Press q to quit.",
	RunE:  runLive,
}

func init() {
	liveCmd.Flags().String("camera", "", "camera index or video file (CAMERA_ID)")
	liveCmd.Flags().String("signs", "", "directory of sign images (SIGNS_DIR)")
	liveCmd.Flags().String("model-url", "", "download the model from here if it is missing (MODEL_URL)")
	liveCmd.Flags().Int("window", 0, "number of recent predictions voted on (SMOOTHING_WINDOW)")
	liveCmd.Flags().Float64Var(&motionThreshold, "motion-threshold", 0, "skip detection when at most this percent of pixels changed; 0 disables")
	rootCmd.AddCommand(liveCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	rec, err := openRecognizer(cmd.Context(), detector.LiveConfig())
	if err != nil {
		return err
	}
	defer closeRecognizer(rec)

	set, err := signs.Load(cfg.SignsDir, rec.Labels())
	if err != nil {
		return err
	}
	defer set.Close()
	if len(set) == 0 {
		log.WithField("dir", cfg.SignsDir).Warn("[mudra.live] no sign images found; run `mudra signs` to create them")
	}

	source := capture.ParseSource(cfg.Camera)
	window := app.NewWindow(app.WindowTitle)
	defer window.Close()

	log.WithField("camera", source.String()).Info("[mudra.live] starting")

	a := app.New(app.Config{
		Camera:          capture.NewCamera(source),
		Recognizer:      rec,
		Display:         window,
		Signs:           set,
		Logger:          log,
		Window:          cfg.Window,
		MotionThreshold: motionThreshold,
	})
	if err := a.Run(cmd.Context()); err != nil {
		return err
	}

	log.WithField("frames", a.Frames()).Info("[mudra.live] stopped")
	return nil
}
