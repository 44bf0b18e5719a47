// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents the previous hash of the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// addressLength is the number of hex characters kept from the public key hash.
const addressLength = 16

// ErrInvalidSignature is returned when a signature doesn't match the data
// or the public key doesn't belong to the sender.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// Hash returns the lowercase hex SHA-256 digest of the data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Object is an ordered set of JSON members. Keys must already be provided in
// sorted order, that is what makes the encoding canonical.
type Object []Member

// Member is a single key/value inside an Object.
type Member struct {
	Key   string
	Value any
}

// Canonical writes the value in compact JSON: sorted keys, no whitespace,
// ASCII-only strings. The supported values are Object, []Object, string,
// int64, int and float64.
func Canonical(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, value); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case Object:
		buf.WriteByte('{')
		for i, m := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.Key)
			buf.WriteByte(':')
			if err := encode(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	case []Object:
		buf.WriteByte('[')
		for i, o := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, o); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case string:
		writeString(buf, v)

	case int64:
		buf.WriteString(strconv.FormatInt(v, 10))

	case int:
		buf.WriteString(strconv.Itoa(v))

	case float64:
		buf.WriteString(FormatFloat(v))

	default:
		return fmt.Errorf("canonical: unsupported type %T", value)
	}

	return nil
}

// writeString escapes the string the same way a JSON encoder running in ASCII
// mode does. Runes outside the BMP are written as surrogate pairs.
func writeString(buf *bytes.Buffer, s string) {
	const hexDigits = "0123456789abcdef"

	writeU := func(r rune) {
		buf.WriteString(`\u`)
		buf.WriteByte(hexDigits[(r>>12)&0xF])
		buf.WriteByte(hexDigits[(r>>8)&0xF])
		buf.WriteByte(hexDigits[(r>>4)&0xF])
		buf.WriteByte(hexDigits[r&0xF])
	}

	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r < 0x20 || (r >= 0x7f && r <= 0xFFFF):
			writeU(r)
		case r > 0xFFFF:
			r -= 0x10000
			writeU(0xD800 + (r>>10)&0x3FF)
			writeU(0xDC00 + r&0x3FF)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// FormatFloat renders a float in shortest round-trip form. Integral values
// keep a trailing ".0" and exponent form is used outside [1e-4, 1e16).
func FormatFloat(f float64) string {
	if f == 0 {
		return "0.0"
	}

	abs := f
	if abs < 0 {
		abs = -abs
	}

	if abs < 1e-4 || abs >= 1e16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// =============================================================================

// The SubjectPublicKeyInfo object identifiers for an EC key on secp256k1.
var (
	oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1      = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	NamedCurve asn1.ObjectIdentifier
}

type subjectPublicKeyInfo struct {
	Algorithm algorithmIdentifier
	PublicKey asn1.BitString
}

// PublicKeyToAddress derives the wallet address for the public key: the first
// 16 hex characters of the SHA-256 of its DER SubjectPublicKeyInfo.
func PublicKeyToAddress(pk ecdsa.PublicKey) (string, error) {
	point := crypto.FromECDSAPub(&pk)

	der, err := asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: algorithmIdentifier{
			Algorithm:  oidPublicKeyECDSA,
			NamedCurve: oidSecp256k1,
		},
		PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
	})
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}

	return Hash(der)[:addressLength], nil
}

// SigningBody returns the bytes a wallet signs for a transaction. The form is
// sorted keys with ", " and ": " separators.
func SigningBody(sender string, recipient string, amount int64) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"amount": `)
	buf.WriteString(strconv.FormatInt(amount, 10))
	buf.WriteString(`, "recipient": `)
	writeString(&buf, recipient)
	buf.WriteString(`, "sender": `)
	writeString(&buf, sender)
	buf.WriteByte('}')

	return buf.Bytes()
}

// Sign signs the transaction body with the private key and returns the r and
// s values hex encoded.
func Sign(sender string, recipient string, amount int64, privateKey *ecdsa.PrivateKey) (r string, s string, err error) {
	digest := sha256.Sum256(SigningBody(sender, recipient, amount))

	sig, err := crypto.Sign(digest[:], privateKey)
	if err != nil {
		return "", "", err
	}

	r = hex.EncodeToString(sig[:32])
	s = hex.EncodeToString(sig[32:64])

	return r, s, nil
}

// Verify checks the signature was produced by the owner of the public key
// and that the key belongs to the sender address.
func Verify(sender string, recipient string, amount int64, publicKey string, r string, s string) error {
	pkBytes, err := hexutil.Decode(with0x(publicKey))
	if err != nil {
		return fmt.Errorf("%w: public key: %s", ErrInvalidSignature, err)
	}

	pk, err := crypto.UnmarshalPubkey(pkBytes)
	if err != nil {
		return fmt.Errorf("%w: public key: %s", ErrInvalidSignature, err)
	}

	addr, err := PublicKeyToAddress(*pk)
	if err != nil {
		return err
	}
	if addr != sender {
		return fmt.Errorf("%w: key belongs to %s, not %s", ErrInvalidSignature, addr, sender)
	}

	rInt, ok := new(big.Int).SetString(r, 16)
	if !ok {
		return fmt.Errorf("%w: bad r value", ErrInvalidSignature)
	}
	sInt, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return fmt.Errorf("%w: bad s value", ErrInvalidSignature)
	}
	if rInt.BitLen() > 256 || sInt.BitLen() > 256 {
		return fmt.Errorf("%w: signature values out of range", ErrInvalidSignature)
	}

	sig := make([]byte, 64)
	rInt.FillBytes(sig[:32])
	sInt.FillBytes(sig[32:])

	digest := sha256.Sum256(SigningBody(sender, recipient, amount))
	if !crypto.VerifySignature(pkBytes, digest[:], sig) {
		return ErrInvalidSignature
	}

	return nil
}

// PublicKeyString returns the uncompressed public key hex encoded.
func PublicKeyString(pk ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&pk))
}

func with0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s
	}
	return "0x" + s
}
