package audio

import (
	"bytes"
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

const readChunk = 2048

// LoadWAV decodes a WAV file into a mono Signal. Multi-channel input is
// mixed down by averaging channels. Decode failures surface as LoadError.
func LoadWAV(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, &LoadError{Reason: "open " + path, Err: err}
	}
	defer f.Close()
	return DecodeWAV(f)
}

// DecodeWAV decodes WAV data from r into a mono Signal.
func DecodeWAV(r io.Reader) (Signal, error) {
	// wav.NewReader needs an io.ReaderAt, so buffer the stream.
	data, err := io.ReadAll(r)
	if err != nil {
		return Signal{}, &LoadError{Reason: "read wav data", Err: err}
	}
	reader := wav.NewReader(bytes.NewReader(data))
	format, err := reader.Format()
	if err != nil {
		return Signal{}, &LoadError{Reason: "read wav header", Err: err}
	}

	channels := int(format.NumChannels)
	if channels < 1 {
		return Signal{}, &LoadError{Reason: "wav with zero channels"}
	}

	var samples []float64
	for {
		chunk, err := reader.ReadSamples(readChunk)
		for _, s := range chunk {
			v := 0.0
			for ch := 0; ch < channels; ch++ {
				v += reader.FloatValue(s, uint(ch))
			}
			samples = append(samples, v/float64(channels))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Signal{}, &LoadError{Reason: "read wav samples", Err: err}
		}
	}

	return New(samples, int(format.SampleRate))
}
