package objects

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

// Loose-object codec. The engine stores standalone objects as
// zlib-compressed "<type> <size>\0<content>", and the object id is the
// SHA-1 of that same uncompressed envelope. The codec lets tooling
// hash and inspect objects without a live engine process.

// SerializeObject renders the uncompressed storage envelope.
func SerializeObject(t ObjectType, content []byte) []byte {
	header := fmt.Sprintf("%s %d%c", t, len(content), NullByte)
	envelope := make([]byte, 0, len(header)+len(content))
	envelope = append(envelope, header...)
	return append(envelope, content...)
}

// HashObject computes the object id of content stored as type t.
func HashObject(t ObjectType, content []byte) ObjectId {
	return ObjectId(sha1.Sum(SerializeObject(t, content)))
}

// EncodeLoose compresses the storage envelope the way the engine
// writes loose objects.
func EncodeLoose(t ObjectType, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}

	if _, err := w.Write(SerializeObject(t, content)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to compress object: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize compression: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeLoose inflates a loose object and splits the envelope into its
// decoded type and content.
func DecodeLoose(data []byte) (ObjectType, []byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return UnknownType, nil, fmt.Errorf("failed to open compressed object: %w", err)
	}
	defer r.Close()

	envelope, err := io.ReadAll(r)
	if err != nil {
		return UnknownType, nil, fmt.Errorf("failed to decompress object: %w", err)
	}
	return parseLooseEnvelope(envelope)
}

// parseLooseEnvelope splits "<type> <size>\0<content>" and checks the
// declared size against the actual content length.
func parseLooseEnvelope(envelope []byte) (ObjectType, []byte, error) {
	nullIndex := bytes.IndexByte(envelope, NullByte)
	if nullIndex == -1 {
		return UnknownType, nil, fmt.Errorf("invalid object header: missing null byte")
	}

	spaceIndex := bytes.IndexByte(envelope[:nullIndex], SpaceByte)
	if spaceIndex == -1 {
		return UnknownType, nil, fmt.Errorf("invalid object header: missing space")
	}

	t, err := ParseObjectType(string(envelope[:spaceIndex]))
	if err != nil {
		return UnknownType, nil, fmt.Errorf("invalid object header: %w", err)
	}

	size, err := strconv.ParseInt(string(envelope[spaceIndex+1:nullIndex]), 10, 64)
	if err != nil {
		return UnknownType, nil, fmt.Errorf("invalid size in header: %w", err)
	}

	content := envelope[nullIndex+1:]
	if int64(len(content)) != size {
		return UnknownType, nil, fmt.Errorf("content size mismatch: header says %d, got %d", size, len(content))
	}
	return t, content, nil
}
