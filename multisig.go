package multisig

import (
	"crypto/hmac"
	"crypto/rand"
	"hash"
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/cespare/xxhash"

	"github.com/Laisky/multisig-hmac/log"
)

// Scheme parameters shared by every signer and verifier of one deployment.
//
// all fields are immutable after New, Scheme is safe for concurrent use.
type Scheme struct {
	name      string
	primitive func() hash.Hash
	// keyBytes block size of primitive, length of generated keys and seeds
	keyBytes int
	// bytes digest size of primitive, length of tags and signatures
	bytes  int
	random io.Reader
	logger log.Logger
}

type option struct {
	name      string
	primitive func() hash.Hash
	random    io.Reader
	logger    log.Logger
}

func (o *option) fillDefault() *option {
	o.name = DefaultHashType.String()
	o.primitive, _ = DefaultHashType.Hasher()
	o.random = rand.Reader
	o.logger = log.Shared.Named("scheme")
	return o
}

func (o *option) applyOpts(opts ...Option) (*option, error) {
	for _, f := range opts {
		if err := f(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Option optional arguments for New
type Option func(*option) error

// WithHashType use built-in hash preset
func WithHashType(h HashType) Option {
	return func(o *option) error {
		primitive, err := h.Hasher()
		if err != nil {
			return errors.Wrap(err, "get hasher")
		}

		o.name = h.String()
		o.primitive = primitive
		return nil
	}
}

// WithHashFunc use custom hash primitive.
//
// key derivation needs 2 * Size() >= BlockSize() to produce full length keys,
// shorter derived keys are still valid HMAC keys.
func WithHashFunc(name string, primitive func() hash.Hash) Option {
	return func(o *option) error {
		if name == "" {
			return errors.Errorf("name should not be empty")
		}
		if primitive == nil {
			return errors.Errorf("primitive should not be nil")
		}

		h := primitive()
		if h == nil || h.Size() <= 0 || h.BlockSize() <= 0 {
			return errors.Errorf("primitive %q returns invalid hash", name)
		}

		o.name = name
		o.primitive = primitive
		return nil
	}
}

// WithRandom set source of randomness for keys and seeds,
// default crypto/rand.Reader. reader must be safe for concurrent use
// if the scheme is shared between goroutines.
func WithRandom(reader io.Reader) Option {
	return func(o *option) error {
		if reader == nil {
			return errors.Errorf("reader should not be nil")
		}

		o.random = reader
		return nil
	}
}

// WithLogger set logger
func WithLogger(logger log.Logger) Option {
	return func(o *option) error {
		if logger == nil {
			return errors.Errorf("logger should not be nil")
		}

		o.logger = logger
		return nil
	}
}

// New create scheme, default HMAC-SHA256
func New(opts ...Option) (*Scheme, error) {
	opt, err := new(option).fillDefault().applyOpts(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "apply options")
	}

	h := opt.primitive()
	s := &Scheme{
		name:      opt.name,
		primitive: opt.primitive,
		keyBytes:  h.BlockSize(),
		bytes:     h.Size(),
		random:    opt.random,
		logger:    opt.logger.With(zap.String("hash", opt.name)),
	}

	return s, nil
}

// HashName name of the keyed-hash primitive
func (s *Scheme) HashName() string {
	return s.name
}

// KeyBytes length of generated keys and master seeds
func (s *Scheme) KeyBytes() int {
	return s.keyBytes
}

// Bytes length of tags and signatures
func (s *Scheme) Bytes() int {
	return s.bytes
}

// mac HMAC over the concatenation of parts
func (s *Scheme) mac(key []byte, parts ...[]byte) []byte {
	m := hmac.New(s.primitive, key)
	for _, p := range parts {
		m.Write(p) // nolint: errcheck
	}

	return m.Sum(nil)
}

// fingerprint identify message in logs without leaking it
func fingerprint(message []byte) zap.Field {
	return zap.Uint64("message_xxhash", xxhash.Sum64(message))
}
