// Package persist encodes trained models to a downloadable artifact and
// decodes them back. The artifact is gzip-compressed JSON of the model
// snapshot, framed with a magic tag and an xxhash64 checksum so corrupt
// or truncated files fail loudly at import instead of producing a model
// with garbage weights.
package persist

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/ranilmukesh/mlstudio/network"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// artifact layout: magic (8 bytes) | xxhash64 of payload (8 bytes, LE) |
// payload length (8 bytes, LE) | gzip payload.
var magic = [8]byte{'M', 'L', 'S', 'T', 'U', 'D', 'I', 'O'}

const headerSize = 8 + 8 + 8

// maxPayloadSize bounds the length field of an artifact header. Even the
// deepest catalog model compresses to well under a megabyte; anything
// near this limit is a corrupt or hostile length, not a real model.
const maxPayloadSize = 64 << 20

// Save writes a trained model to w in artifact format.
func Save(model *network.Model, w io.Writer) error {
	snap, err := model.Snapshot()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encode model snapshot")
	}

	var payload bytes.Buffer
	gz := gzip.NewWriter(&payload)
	if _, err := gz.Write(raw); err != nil {
		return errors.Wrap(err, "compress model snapshot")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "compress model snapshot")
	}

	var header [headerSize]byte
	copy(header[:8], magic[:])
	binary.LittleEndian.PutUint64(header[8:16], xxhash.Sum64(payload.Bytes()))
	binary.LittleEndian.PutUint64(header[16:24], uint64(payload.Len()))

	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "write artifact header")
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return errors.Wrap(err, "write artifact payload")
	}
	return nil
}

// Load reads a model artifact from r, verifies its checksum, and
// rebuilds a usable model.
func Load(r io.Reader) (*network.Model, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "short header")
	}
	if !bytes.Equal(header[:8], magic[:]) {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "bad magic")
	}

	wantSum := binary.LittleEndian.Uint64(header[8:16])
	payloadLen := binary.LittleEndian.Uint64(header[16:24])
	if payloadLen == 0 || payloadLen > maxPayloadSize {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "implausible payload length")
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "short payload")
	}
	if xxhash.Sum64(payload) != wantSum {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "checksum mismatch")
	}

	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "bad gzip stream")
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "bad gzip stream")
	}

	var snap network.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCorruptArtifact, "bad snapshot JSON")
	}
	return network.FromSnapshot(&snap)
}

// Export writes the model artifact to path and returns an RFC3339
// timestamp of the export.
func Export(model *network.Model, path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create artifact file")
	}
	defer f.Close()

	if err := Save(model, f); err != nil {
		return "", err
	}
	return time.Now().Format(time.RFC3339), nil
}

// Import reads a model artifact from path.
func Import(path string) (*network.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open artifact file")
	}
	defer f.Close()

	return Load(f)
}
