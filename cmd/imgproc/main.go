// Command imgproc runs the processing pipeline over a directory of images:
// optional upscaling, background removal and watermark cleanup, re-encoded
// into the requested output format.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clearframe-ai/go-imaging/codec"
	"github.com/clearframe-ai/go-imaging/pipeline"
	"github.com/clearframe-ai/go-imaging/segmentation"
	"github.com/clearframe-ai/go-imaging/util"
	"github.com/clearframe-ai/go-imaging/watermark"
)

func main() {
	var (
		inDir       = flag.String("in", "", "input directory of images")
		outDir      = flag.String("out", "out", "output directory")
		optionsFile = flag.String("options", "", "YAML options file")
		scale       = flag.Float64("scale", 0, "override scale factor")
		interpName  = flag.String("interp", "", "override interpolation algorithm")
		bgMode      = flag.String("background", "", "background removal mode: ai or advanced")
		modelPath   = flag.String("model", "", "ONNX segmentation model path (ai mode)")
		clean       = flag.Bool("clean-watermarks", false, "run watermark removal after the pipeline")
		detectOnly  = flag.Bool("detect", false, "only report detected watermark regions")
		format      = flag.String("format", "png", "output format: jpeg, png or webp")
	)
	flag.Parse()

	if *inDir == "" {
		logrus.Fatal("missing -in directory")
	}

	opts := pipeline.DefaultOptions()
	if *optionsFile != "" {
		loaded, err := pipeline.LoadOptions(*optionsFile)
		if err != nil {
			logrus.WithError(err).Fatal("failed to load options")
		}
		opts = loaded
	}
	if *scale > 0 {
		opts.ScaleFactor = *scale
	}
	if *interpName != "" {
		opts.Interpolation = *interpName
	}
	if *bgMode != "" {
		opts.BackgroundMode = *bgMode
	}

	images, err := util.LoadDirectoryImageFiles(*inDir)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load input images")
	}
	logrus.WithField("count", len(images)).Info("loaded input images")

	if *detectOnly {
		for _, img := range images {
			for _, region := range watermark.Detect(img.Buffer) {
				logrus.WithFields(logrus.Fields{
					"path":       img.Path,
					"region":     region.Region,
					"confidence": region.Confidence,
				}).Info("watermark candidate")
			}
		}
		return
	}

	var provider segmentation.Provider
	if opts.BackgroundMode == pipeline.BackgroundAI {
		if *modelPath == "" {
			logrus.Fatal("ai background mode requires -model")
		}
		model, err := segmentation.LoadModel(segmentation.ONNXConfig{
			ModelPath:   *modelPath,
			InputName:   "input",
			OutputName:  "output",
			InputWidth:  256,
			InputHeight: 256,
		})
		if err != nil {
			logrus.WithError(err).Fatal("failed to load segmentation model")
		}
		defer model.Close()
		provider = model
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logrus.WithError(err).Fatal("failed to create output directory")
	}

	results := pipeline.ProcessBatch(context.Background(), util.Buffers(images), opts, provider)

	encOpts := codec.EncodeOptions{Format: codec.Format(*format), Quality: opts.Quality}
	written := 0
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if *clean {
			if _, err := pipeline.CleanWatermarks(res.Buffer, opts); err != nil {
				logrus.WithError(err).WithField("path", images[res.Index].Path).
					Warn("watermark cleanup failed")
			}
		}

		data, err := codec.Encode(res.Buffer, encOpts)
		if err != nil {
			logrus.WithError(err).WithField("path", images[res.Index].Path).Warn("encode failed")
			continue
		}

		base := strings.TrimSuffix(filepath.Base(images[res.Index].Path), filepath.Ext(images[res.Index].Path))
		outPath := filepath.Join(*outDir, base+"."+*format)
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			logrus.WithError(err).WithField("path", outPath).Warn("write failed")
			continue
		}
		written++
	}

	logrus.WithFields(logrus.Fields{
		"processed": len(results),
		"written":   written,
	}).Info("done")
}
