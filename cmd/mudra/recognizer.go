package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/recognizer"
)

// openRecognizer loads the labels and the model and starts a detector with
// det's thresholds. The caller closes the recognizer and then the runtime.
func openRecognizer(ctx context.Context, det detector.Config) (*recognizer.Recognizer, error) {
	labels, err := classifier.LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	downloaded, err := classifier.EnsureModel(ctx, cfg.ModelPath, cfg.ModelURL, os.Stderr)
	if err != nil {
		return nil, err
	}
	if downloaded {
		log.WithField("path", cfg.ModelPath).Info("[mudra] model downloaded")
	}

	if err := classifier.InitRuntime(cfg.OnnxRuntimeLib); err != nil {
		return nil, err
	}

	cls, err := classifier.NewONNXClassifier(cfg.ModelPath, gesture.FeatureSize, len(labels))
	if err != nil {
		classifier.DestroyRuntime()
		return nil, fmt.Errorf("load model: %w", err)
	}

	det.Python = cfg.Python
	det.Script = cfg.MediaPipeScript
	hands, err := detector.NewMediaPipeDetector(det)
	if err != nil {
		cls.Close()
		classifier.DestroyRuntime()
		return nil, err
	}

	log.WithFields(logging.Fields{
		"model":  cfg.ModelPath,
		"labels": len(labels),
	}).Info("[mudra] recognizer ready")

	return recognizer.New(hands, cls, labels), nil
}

// closeRecognizer releases the recognizer and unloads the runtime.
func closeRecognizer(rec *recognizer.Recognizer) {
	if err := rec.Close(); err != nil {
		log.WithField("error", err).Warn("[mudra] failed to close recognizer")
	}
	if err := classifier.DestroyRuntime(); err != nil {
		log.WithField("error", err).Warn("[mudra] failed to destroy onnx runtime")
	}
}
