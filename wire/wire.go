// Package wire text and binary encodings of keys, tags and signatures.
//
// binary form of a tag or signature is
//
//	LE32(bitfield) || digest
//
// text forms use URL safe base64 with padding.
package wire

import (
	"encoding/base64"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	jsoniter "github.com/json-iterator/go"

	multisig "github.com/Laisky/multisig-hmac"
	"github.com/Laisky/multisig-hmac/bitfield"
)

const bitfieldLen = 4

var (
	encoding = base64.URLEncoding
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
)

// MarshalSignature binary form of signature
func MarshalSignature(sig multisig.Signature) []byte {
	b := make([]byte, bitfieldLen+len(sig.Digest))
	binary.LittleEndian.PutUint32(b, sig.Bitfield)
	copy(b[bitfieldLen:], sig.Digest)
	return b
}

// UnmarshalSignature parse binary form, digest must be digestSize bytes
func UnmarshalSignature(b []byte, digestSize int) (sig multisig.Signature, err error) {
	if len(b) != bitfieldLen+digestSize {
		return sig, errors.Errorf("signature must be %d bytes, got %d", bitfieldLen+digestSize, len(b))
	}

	sig.Bitfield = binary.LittleEndian.Uint32(b)
	sig.Digest = make([]byte, digestSize)
	copy(sig.Digest, b[bitfieldLen:])
	return sig, nil
}

// EncodeSignature base64 of binary form
func EncodeSignature(sig multisig.Signature) string {
	return encoding.EncodeToString(MarshalSignature(sig))
}

// DecodeSignature parse EncodeSignature output
func DecodeSignature(s string, digestSize int) (multisig.Signature, error) {
	b, err := encoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return multisig.Signature{}, errors.Wrap(err, "decode base64")
	}

	return UnmarshalSignature(b, digestSize)
}

// EncodeTag base64 of binary form, same layout as signature
func EncodeTag(tag multisig.Tag) string {
	return EncodeSignature(multisig.Signature(tag))
}

// DecodeTag parse EncodeTag output, bitfield must have exactly one bit set
func DecodeTag(s string, digestSize int) (multisig.Tag, error) {
	sig, err := DecodeSignature(s, digestSize)
	if err != nil {
		return multisig.Tag{}, errors.Wrap(err, "decode tag")
	}

	if n := bitfield.Popcount(sig.Bitfield); n != 1 {
		return multisig.Tag{}, errors.Errorf("tag must have exactly one signer, got %d", n)
	}

	return multisig.Tag(sig), nil
}

// EncodeKey as "<index>:<base64 secret>"
func EncodeKey(k multisig.Key) string {
	return strconv.FormatUint(uint64(k.Index), 10) + ":" + encoding.EncodeToString(k.Secret)
}

// DecodeKey parse EncodeKey output
func DecodeKey(s string) (k multisig.Key, err error) {
	idx, secret, err := splitIndexed(s, 32)
	if err != nil {
		return k, errors.Wrap(err, "decode key")
	}

	return multisig.Key{Index: uint32(idx), Secret: secret}, nil
}

// EncodeSeed base64 of master seed
func EncodeSeed(seed multisig.MasterSeed) string {
	return encoding.EncodeToString(seed)
}

// DecodeSeed parse EncodeSeed output
func DecodeSeed(s string) (multisig.MasterSeed, error) {
	b, err := encoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(err, "decode seed")
	}

	return b, nil
}

// EncodeShare master seed share as "<id>:<base64 share>"
func EncodeShare(id byte, share []byte) string {
	return strconv.FormatUint(uint64(id), 10) + ":" + encoding.EncodeToString(share)
}

// DecodeShare parse EncodeShare output
func DecodeShare(s string) (id byte, share []byte, err error) {
	v, share, err := splitIndexed(s, 8)
	if err != nil {
		return 0, nil, errors.Wrap(err, "decode share")
	}

	return byte(v), share, nil
}

func splitIndexed(s string, bitSize int) (uint64, []byte, error) {
	prefix, payload, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, nil, errors.Errorf("missing index separator")
	}

	idx, err := strconv.ParseUint(prefix, 10, bitSize)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "parse index %q", prefix)
	}

	b, err := encoding.DecodeString(payload)
	if err != nil {
		return 0, nil, errors.Wrap(err, "decode base64")
	}

	return idx, b, nil
}

// SignatureJSON json document of signature
type SignatureJSON struct {
	Hash     string   `json:"hash,omitempty"`
	Bitfield uint32   `json:"bitfield"`
	Signers  []uint32 `json:"signers,omitempty"`
	Digest   string   `json:"digest"`
}

// MarshalSignatureJSON encode signature as SignatureJSON
func MarshalSignatureJSON(sig multisig.Signature, hashName string) ([]byte, error) {
	doc := SignatureJSON{
		Hash:     hashName,
		Bitfield: sig.Bitfield,
		Signers:  sig.Signers(),
		Digest:   encoding.EncodeToString(sig.Digest),
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshal signature")
	}

	return b, nil
}

// UnmarshalSignatureJSON decode SignatureJSON.
//
// signers is optional, but must agree with bitfield when present.
func UnmarshalSignatureJSON(data []byte, digestSize int) (sig multisig.Signature, hashName string, err error) {
	doc := new(SignatureJSON)
	if err = json.Unmarshal(data, doc); err != nil {
		return sig, "", errors.Wrap(err, "unmarshal signature")
	}

	if len(doc.Signers) != 0 {
		bf, err := bitfield.FromIndexes(doc.Signers...)
		if err != nil {
			return sig, "", errors.Wrap(err, "parse signers")
		}
		if bf != doc.Bitfield {
			return sig, "", errors.Errorf("signers %v do not match bitfield %#x", doc.Signers, doc.Bitfield)
		}
	}

	digest, err := encoding.DecodeString(doc.Digest)
	if err != nil {
		return sig, "", errors.Wrap(err, "decode digest")
	}
	if len(digest) != digestSize {
		return sig, "", errors.Errorf("digest must be %d bytes, got %d", digestSize, len(digest))
	}

	return multisig.Signature{Bitfield: doc.Bitfield, Digest: digest}, doc.Hash, nil
}
