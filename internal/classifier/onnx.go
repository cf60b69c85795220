package classifier

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// InitRuntime loads the ONNX Runtime shared library. It must be called once
// before NewONNXClassifier. An empty path lets the library search its default
// locations.
func InitRuntime(libPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnx runtime: %w", err)
	}
	return nil
}

// DestroyRuntime unloads the ONNX Runtime environment.
func DestroyRuntime() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// ONNXClassifier runs an ONNX export of the gesture model. The model takes a
// [1, inputSize] float tensor and returns [1, classes] probabilities.
//
// The session reuses one pair of tensors, so Predict calls are serialized.
type ONNXClassifier struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	size    int
}

// NewONNXClassifier opens modelPath. Input and output names are read from the
// model; the output width must equal classes.
func NewONNXClassifier(modelPath string, inputSize, classes int) (*ONNXClassifier, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("read model info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("model has %d inputs and %d outputs, want 1 and 1", len(inputs), len(outputs))
	}
	if dims := outputs[0].Dimensions; len(dims) > 0 && dims[len(dims)-1] > 0 && int(dims[len(dims)-1]) != classes {
		return nil, fmt.Errorf("model predicts %d classes, label file has %d", dims[len(dims)-1], classes)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	if err := options.SetIntraOpNumThreads(runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("set intra op threads: %w", err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(inputSize)))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(classes)))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &ONNXClassifier{
		session: session,
		input:   input,
		output:  output,
		size:    inputSize,
	}, nil
}

// Predict implements Classifier.
func (c *ONNXClassifier) Predict(features []float32) ([]float32, error) {
	if len(features) != c.size {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(features), c.size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, errors.New("classifier is closed")
	}

	copy(c.input.GetData(), features)
	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}

	probs := make([]float32, len(c.output.GetData()))
	copy(probs, c.output.GetData())
	return probs, nil
}

// Close implements Classifier.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.input.Destroy()
	c.output.Destroy()
	c.session = nil
	return err
}
