package bert

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/ramou/TooT-BERT-T/internal/classify"
)

// OnnxConfig contains settings for the ONNX embedding model.
type OnnxConfig struct {
	ModelPath    string
	LibraryPath  string // onnxruntime shared library; resolved when empty
	Device       string // "cpu" (default) or "cuda"
	InputIDsName string // default "input_ids"
	MaskName     string // default "attention_mask"
	TypeIDsName  string // extra all-zero input for exports that take token_type_ids; empty to omit
	OutputName   string // default "last_hidden_state"
}

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// OnnxEmbedder runs the transporter BERT model through onnxruntime. A session
// is not safe for concurrent Run calls, so a mutex serializes them; the
// gateway shares one embedder across connections.
type OnnxEmbedder struct {
	session *ort.DynamicAdvancedSession
	cfg     OnnxConfig
	mu      sync.Mutex
}

// NewOnnxEmbedder initializes the runtime environment (once per process),
// applies device placement and loads the model. Device selection is fixed for
// the lifetime of the embedder.
func NewOnnxEmbedder(cfg OnnxConfig) (*OnnxEmbedder, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}
	if cfg.InputIDsName == "" {
		cfg.InputIDsName = "input_ids"
	}
	if cfg.MaskName == "" {
		cfg.MaskName = "attention_mask"
	}
	if cfg.OutputName == "" {
		cfg.OutputName = "last_hidden_state"
	}

	ortInitOnce.Do(func() {
		lib := cfg.LibraryPath
		if lib == "" {
			lib, ortInitErr = resolveLibrary()
			if ortInitErr != nil {
				return
			}
		}
		ort.SetSharedLibraryPath(lib)
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("failed to initialize onnxruntime: %w", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	switch cfg.Device {
	case "", "cpu":
	case "cuda":
		cudaOptions, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return nil, fmt.Errorf("failed to create cuda provider options: %w", err)
		}
		defer cudaOptions.Destroy()
		if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
			return nil, fmt.Errorf("failed to enable cuda: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown device %q", cfg.Device)
	}

	inputNames := []string{cfg.InputIDsName, cfg.MaskName}
	if cfg.TypeIDsName != "" {
		inputNames = append(inputNames, cfg.TypeIDsName)
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, []string{cfg.OutputName}, options)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return &OnnxEmbedder{session: session, cfg: cfg}, nil
}

// Embed runs inference for one token batch and returns the last hidden state,
// one row per token position.
func (e *OnnxEmbedder) Embed(ctx context.Context, batch classify.TokenBatch) ([][]float32, error) {
	if e == nil || e.session == nil {
		return nil, fmt.Errorf("embedder is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seqLen := len(batch.InputIDs)
	if seqLen == 0 {
		return nil, fmt.Errorf("token batch is empty")
	}

	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, batch.InputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, batch.AttentionMask)
	if err != nil {
		return nil, fmt.Errorf("failed to create mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	inputs := []ort.Value{idsTensor, maskTensor}
	if e.cfg.TypeIDsName != "" {
		typeTensor, err := ort.NewTensor(shape, make([]int64, seqLen))
		if err != nil {
			return nil, fmt.Errorf("failed to create type-id tensor: %w", err)
		}
		defer typeTensor.Destroy()
		inputs = append(inputs, typeTensor)
	}

	outputs := make([]ort.Value, 1)
	e.mu.Lock()
	err = e.session.Run(inputs, outputs)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer out.Destroy()

	dims := out.GetShape()
	if len(dims) != 3 || dims[0] != 1 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	rows, hidden := int(dims[1]), int(dims[2])
	data := out.GetData()
	if len(data) != rows*hidden {
		return nil, fmt.Errorf("output has %d values for shape %v", len(data), dims)
	}

	embeddings := make([][]float32, rows)
	for i := range embeddings {
		row := make([]float32, hidden)
		copy(row, data[i*hidden:(i+1)*hidden])
		embeddings[i] = row
	}
	return embeddings, nil
}

// Close releases the session. The runtime environment stays up for the
// process lifetime.
func (e *OnnxEmbedder) Close() error {
	if e == nil || e.session == nil {
		return nil
	}
	return e.session.Destroy()
}
