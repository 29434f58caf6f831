package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"sender/domain"

	"github.com/tonkeeper/tongo/wallet"
	"golang.org/x/crypto/scrypt"
)

const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
	keySize = 32
)

// record is one sealed recovery phrase, keyed by the wallet's public key.
type record struct {
	PublicKey string `json:"public_key"`
	Salt      []byte `json:"salt"`
	Nonce     []byte `json:"nonce"`
	Sealed    []byte `json:"sealed"`
}

// FileStore keeps passphrase-sealed recovery phrases in a JSON file. Sealing
// uses a scrypt-derived key, so a stolen file alone does not leak the phrase.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (store *FileStore) load() ([]record, error) {
	data, err := os.ReadFile(store.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt keystore %v: %w", store.path, err)
	}
	return records, nil
}

func (store *FileStore) save(records []record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(store.path, data, 0600)
}

func seal(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Store seals a recovery phrase under the passphrase and registers it for
// the given public key, replacing any previous record for that key.
func (store *FileStore) Store(publicKey string, seed string, passphrase string) error {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return err
	}

	aead, err := seal(passphrase, salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	records, err := store.load()
	if err != nil {
		return err
	}
	kept := make([]record, 0, len(records)+1)
	for _, r := range records {
		if r.PublicKey != publicKey {
			kept = append(kept, r)
		}
	}
	kept = append(kept, record{
		PublicKey: publicKey,
		Salt:      salt,
		Nonce:     nonce,
		Sealed:    aead.Seal(nil, nonce, []byte(seed), nil),
	})

	return store.save(kept)
}

// Unlock opens the sealed phrase for the given public key and derives the
// wallet's signing key. A wrong passphrase fails authentication; it is not
// distinguishable from a tampered record, and does not need to be.
func (store *FileStore) Unlock(publicKey string, passphrase string) (ed25519.PrivateKey, error) {
	records, err := store.load()
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		if r.PublicKey != publicKey {
			continue
		}

		aead, err := seal(passphrase, r.Salt)
		if err != nil {
			return nil, err
		}

		seed, err := aead.Open(nil, r.Nonce, r.Sealed, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: wrong passphrase", domain.ErrorAuthenticationFailed)
		}

		return wallet.SeedToPrivateKey(string(seed))
	}

	return nil, fmt.Errorf("%w: no key registered for %v", domain.ErrorAuthenticationFailed, publicKey)
}
