package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/seiflotfy/hfcompress"
	"github.com/seiflotfy/hfcompress/internal/fileio"
)

const compressedSuffix = ".huff"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// report describes one processed file for --stats.
type report struct {
	Mode        string         `json:"mode"`
	Input       string         `json:"input"`
	Output      string         `json:"output"`
	InputBytes  int            `json:"input_bytes"`
	OutputBytes int            `json:"output_bytes"`
	Ratio       float64        `json:"ratio"`
	Symbols     int            `json:"symbols"`
	TreeBits    uint16         `json:"tree_bits"`
	Padding     uint8          `json:"padding"`
	CodeLengths map[string]int `json:"code_lengths,omitempty"`
}

func run(opts *options, stdout io.Writer) error {
	dec, err := hfcompress.NewDecoder(hfcompress.WithTreeCache(opts.cacheSize))
	if err != nil {
		return err
	}
	enc := hfcompress.NewEncoder()

	for _, input := range opts.inputs {
		output := opts.output
		var rep *report
		if opts.decode {
			if output == "" {
				output = decodedName(input)
			}
			rep, err = decompressFile(dec, input, output)
		} else {
			if output == "" {
				output = input + compressedSuffix
			}
			rep, err = compressFile(enc, input, output, opts.stats)
		}
		if err != nil {
			return err
		}
		if opts.stats {
			if err := writeReport(stdout, rep); err != nil {
				return fmt.Errorf("write stats: %w", err)
			}
		}
	}
	return nil
}

func decodedName(input string) string {
	if strings.HasSuffix(input, compressedSuffix) && len(input) > len(compressedSuffix) {
		return strings.TrimSuffix(input, compressedSuffix)
	}
	return input + ".out"
}

func compressFile(enc *hfcompress.Encoder, input, output string, withLengths bool) (*report, error) {
	log.Infof("Input file : %s", input)
	log.Infof("Output file: %s", output)

	data, err := fileio.ReadFile(input)
	if err != nil {
		return nil, err
	}
	archive, model, err := enc.EncodeModel(data)
	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", input, err)
	}
	packed, err := archive.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", input, err)
	}
	if err := fileio.WriteFile(output, packed); err != nil {
		return nil, err
	}
	log.Notice("Compression complete")

	rep := &report{
		Mode:        "compress",
		Input:       input,
		Output:      output,
		InputBytes:  len(data),
		OutputBytes: len(packed),
		Ratio:       ratio(len(data), len(packed)),
		TreeBits:    archive.TreeSize,
		Padding:     archive.Padding,
	}
	// Empty input has no model.
	if model != nil {
		rep.Symbols = model.Codes().Len()
		if withLengths {
			rep.CodeLengths = lengthHistogram(model.Codes().Lengths())
		}
	}
	return rep, nil
}

func decompressFile(dec *hfcompress.Decoder, input, output string) (*report, error) {
	log.Infof("Input file : %s", input)
	log.Infof("Output file: %s", output)

	packed, err := fileio.ReadFile(input)
	if err != nil {
		return nil, err
	}
	var archive hfcompress.Archive
	if err := archive.UnmarshalBinary(packed); err != nil {
		return nil, fmt.Errorf("decompress %s: %w", input, err)
	}
	data, err := dec.Decode(&archive)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", input, err)
	}
	if err := fileio.WriteFile(output, data); err != nil {
		return nil, err
	}
	log.Notice("Decompressed file complete")
	log.Debugf("%d trees cached", dec.CacheLen())

	freq := hfcompress.CountFrequencies(data)
	return &report{
		Mode:        "decompress",
		Input:       input,
		Output:      output,
		InputBytes:  len(packed),
		OutputBytes: len(data),
		Ratio:       ratio(len(data), len(packed)),
		Symbols:     freq.Symbols(),
		TreeBits:    archive.TreeSize,
		Padding:     archive.Padding,
	}, nil
}

// ratio is original size over compressed size.
func ratio(original, compressed int) float64 {
	if compressed == 0 {
		return 0
	}
	return float64(original) / float64(compressed)
}

// lengthHistogram counts symbols per code length.
func lengthHistogram(lengths [256]int) map[string]int {
	hist := make(map[string]int)
	for _, l := range lengths {
		if l > 0 {
			hist[strconv.Itoa(l)]++
		}
	}
	return hist
}

func writeReport(w io.Writer, rep *report) error {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

