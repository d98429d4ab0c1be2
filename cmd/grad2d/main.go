// Package main provides the grad2d CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/born-ml/grad2d/internal/blobs"
	"github.com/born-ml/grad2d/internal/nn"
	"github.com/born-ml/grad2d/internal/optim"
	"github.com/born-ml/grad2d/internal/serialization"
	"github.com/born-ml/grad2d/internal/train"
	"k8s.io/klog/v2"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Printf("grad2d %s\n", version)
		return nil
	case "train":
		return runTrain(ctx, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Println("grad2d - reverse-mode autodiff over scalars and 2D tensors")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train an MLP on the built-in toy dataset")
}

type trainOptions struct {
	Sizes         string
	Activation    string
	Optimizer     string
	LR            float64
	Momentum      float64
	Seed          uint64
	Config        train.Config
	Resume        string
	Checkpoint    string
	CheckpointKey string
}

func runTrain(ctx context.Context, args []string) error {
	opt := trainOptions{
		Sizes:         "3,4,4,1",
		Activation:    "tanh",
		Optimizer:     "sgd",
		LR:            0.05,
		Seed:          42,
		Config:        train.DefaultConfig(),
		Checkpoint:    os.Getenv("GRAD2D_CHECKPOINT"),
		CheckpointKey: "model.g2d",
	}

	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	klog.InitFlags(fs)
	fs.StringVar(&opt.Sizes, "sizes", opt.Sizes, "comma-separated layer widths, input first")
	fs.StringVar(&opt.Activation, "activation", opt.Activation, "neuron activation: identity, tanh, relu, sigmoid, exp")
	fs.StringVar(&opt.Optimizer, "optimizer", opt.Optimizer, "optimizer: sgd or adam")
	fs.Float64Var(&opt.LR, "lr", opt.LR, "learning rate")
	fs.Float64Var(&opt.Momentum, "momentum", opt.Momentum, "SGD momentum")
	fs.Uint64Var(&opt.Seed, "seed", opt.Seed, "weight initialization seed")
	fs.IntVar(&opt.Config.Epochs, "epochs", opt.Config.Epochs, "maximum number of epochs")
	fs.IntVar(&opt.Config.LogEvery, "log-every", opt.Config.LogEvery, "log the loss every N epochs (0 disables)")
	fs.Float64Var(&opt.Config.Tolerance, "tolerance", opt.Config.Tolerance, "stop once the loss is below this value")
	fs.StringVar(&opt.Resume, "resume", opt.Resume, "checkpoint to start from: a .g2d file, or a file:// or gs:// store holding -checkpoint-key")
	fs.StringVar(&opt.Checkpoint, "checkpoint", opt.Checkpoint, "where to store the final checkpoint: a directory, file:// or gs:// URL (default $GRAD2D_CHECKPOINT)")
	fs.StringVar(&opt.CheckpointKey, "checkpoint-key", opt.CheckpointKey, "object name of the checkpoint in the store")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := klog.FromContext(ctx)

	sizes, err := parseSizes(opt.Sizes)
	if err != nil {
		return err
	}
	activation, err := nn.ParseActivation(opt.Activation)
	if err != nil {
		return err
	}

	model, err := nn.NewMLP(nn.MLPConfig{Sizes: sizes, Activation: activation, Seed: opt.Seed})
	if err != nil {
		return err
	}

	optimizer, err := newOptimizer(opt, model.Parameters())
	if err != nil {
		return err
	}

	if opt.Resume != "" {
		if err := resume(ctx, opt, model, optimizer); err != nil {
			return err
		}
		log.Info("resumed from checkpoint", "source", opt.Resume)
	}

	xs, ys, err := train.Toy.Tensors()
	if err != nil {
		return err
	}

	log.Info("starting training", "sizes", sizes, "activation", activation, "optimizer", opt.Optimizer, "lr", opt.LR, "epochs", opt.Config.Epochs)

	trainer := train.NewTrainer(model, optimizer, opt.Config)
	result, err := trainer.Fit(ctx, xs, ys)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	if result.Converged {
		fmt.Printf("Converged in %d epochs\n", result.Epochs)
	}
	fmt.Printf("Final loss: %.6f\n", result.FinalLoss)

	preds, err := train.Predict(model, xs)
	if err != nil {
		return err
	}
	fmt.Print("Preds: ")
	for _, p := range preds {
		for _, s := range p.All() {
			fmt.Printf("| %.4f ", s.Value())
		}
	}
	fmt.Println("|")

	if opt.Checkpoint == "" {
		return nil
	}
	return saveCheckpoint(ctx, opt, model, optimizer, result)
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &n); err != nil {
			return nil, fmt.Errorf("invalid layer size %q in %q", part, s)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func newOptimizer(opt trainOptions, params []*nn.Parameter) (optim.Optimizer, error) {
	switch strings.ToLower(opt.Optimizer) {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: opt.LR, Momentum: opt.Momentum}), nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: opt.LR}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", opt.Optimizer)
	}
}

func optimizerType(o optim.Optimizer) string {
	switch o.(type) {
	case *optim.SGD:
		return "SGD"
	case *optim.Adam:
		return "Adam"
	default:
		return fmt.Sprintf("%T", o)
	}
}

// fetchCheckpoint returns a local path for src. A URL names a blobstore, and
// the object at key is downloaded into a temporary directory that cleanup
// removes.
func fetchCheckpoint(ctx context.Context, src, key string) (path string, cleanup func(), err error) {
	if !strings.Contains(src, "://") {
		return src, func() {}, nil
	}

	store, err := blobs.ForURL(src)
	if err != nil {
		return "", nil, err
	}
	dir, err := os.MkdirTemp("", "grad2d")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp dir: %w", err)
	}
	cleanup = func() {
		if err := os.RemoveAll(dir); err != nil {
			klog.FromContext(ctx).Error(err, "removing temp dir", "path", dir)
		}
	}

	path = filepath.Join(dir, "model.g2d")
	if err := store.Download(ctx, key, path); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("downloading checkpoint %q from %s: %w", key, src, err)
	}
	return path, cleanup, nil
}

func resume(ctx context.Context, opt trainOptions, model *nn.MLP, optimizer optim.Optimizer) error {
	path, cleanup, err := fetchCheckpoint(ctx, opt.Resume, opt.CheckpointKey)
	if err != nil {
		return err
	}
	defer cleanup()

	ckpt, err := serialization.LoadFile(path)
	if err != nil {
		return err
	}
	if err := serialization.Apply(ckpt, model.Parameters()); err != nil {
		return fmt.Errorf("restoring %s: %w", opt.Resume, err)
	}

	meta := ckpt.Header.Checkpoint
	if meta == nil || meta.OptimizerType != optimizerType(optimizer) {
		return nil
	}
	if s, ok := optimizer.(optim.Stateful); ok {
		if err := s.LoadStateDict(meta.OptimizerState); err != nil {
			return fmt.Errorf("restoring optimizer state from %s: %w", opt.Resume, err)
		}
	}
	return nil
}

func saveCheckpoint(ctx context.Context, opt trainOptions, model *nn.MLP, optimizer optim.Optimizer, result train.Result) error {
	log := klog.FromContext(ctx)

	store, err := blobs.ForURL(opt.Checkpoint)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "grad2d")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Error(err, "removing temp dir", "path", dir)
		}
	}()

	meta := &serialization.CheckpointMeta{
		Epoch:         result.Epochs,
		Loss:          result.FinalLoss,
		OptimizerType: optimizerType(optimizer),
		LR:            optimizer.GetLR(),
	}
	if s, ok := optimizer.(optim.Stateful); ok {
		meta.OptimizerState = s.StateDict()
	}

	path := filepath.Join(dir, "model.g2d")
	header := serialization.Header{
		ModelType:  "MLP",
		Metadata:   map[string]string{"sizes": opt.Sizes, "activation": opt.Activation},
		Checkpoint: meta,
	}
	if err := serialization.SaveFile(path, model.Parameters(), header); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}

	if err := store.Upload(ctx, path, opt.CheckpointKey); err != nil {
		return fmt.Errorf("uploading checkpoint: %w", err)
	}

	log.Info("saved checkpoint", "destination", opt.Checkpoint, "key", opt.CheckpointKey, "epochs", result.Epochs, "loss", result.FinalLoss)
	return nil
}
