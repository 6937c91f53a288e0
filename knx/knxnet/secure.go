// Licensed under the MIT license which can be found in the LICENSE file.
package knxnet

import "fmt"

// ecdhPublicKeyLen is the length of the X25519 public key carried by a
// SecureSessionReq, per the KNX IP Secure specification.
const ecdhPublicKeyLen = 32

// SecureSessionReq is the channel-setup frame shell for KNX IP Secure: an
// HPAI plus the client's ECDH public key. Only the frame shape is
// implemented here; the actual key-exchange and session-crypto primitives
// are plugged in through the SecureSession interface, out of scope for the
// core codec/state-machine.
type SecureSessionReq struct {
	Control   HostInfo
	PublicKey [ecdhPublicKeyLen]byte
}

// Service returns the service identifier for SecureSessionRequest.
func (SecureSessionReq) Service() ServiceID { return SecureSessionReqService }

// Size returns the packed size.
func (r SecureSessionReq) Size() uint { return r.Control.Size() + ecdhPublicKeyLen }

// Pack assembles the structure in the given buffer.
func (r *SecureSessionReq) Pack(buffer []byte) {
	r.Control.Pack(buffer)
	copy(buffer[r.Control.Size():], r.PublicKey[:])
}

// Unpack parses the given service payload.
func (r *SecureSessionReq) Unpack(data []byte) (n uint, err error) {
	if n, err = r.Control.Unpack(data); err != nil {
		return
	}

	if len(data[n:]) < ecdhPublicKeyLen {
		return n, fmt.Errorf("%w: SecureSessionRequest public key truncated", ErrMalformedFrame)
	}

	copy(r.PublicKey[:], data[n:n+ecdhPublicKeyLen])

	return n + ecdhPublicKeyLen, nil
}
