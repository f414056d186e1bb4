package wallet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const siweStatement = "Sign in to Mazury"

// siweLines is the number of lines String writes.
const siweLines = 10

// SIWEMessage is a Sign-In with Ethereum (EIP-4361 style) message.
type SIWEMessage struct {
	Domain    string
	Address   string
	Statement string
	URI       string
	Version   string
	ChainID   int
	Nonce     string
	IssuedAt  time.Time
}

// NewSIWEMessage builds a sign-in message for address with a fresh nonce.
func NewSIWEMessage(domain, uri, address string, chainID int, now time.Time) SIWEMessage {
	return SIWEMessage{
		Domain:    domain,
		Address:   address,
		Statement: siweStatement,
		URI:       uri,
		Version:   "1",
		ChainID:   chainID,
		Nonce:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		IssuedAt:  now.UTC(),
	}
}

func (m SIWEMessage) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", m.Domain)
	fmt.Fprintf(&b, "%s\n\n", m.Address)
	fmt.Fprintf(&b, "%s\n\n", m.Statement)
	fmt.Fprintf(&b, "URI: %s\n", m.URI)
	fmt.Fprintf(&b, "Version: %s\n", m.Version)
	fmt.Fprintf(&b, "Chain ID: %d\n", m.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", m.Nonce)
	fmt.Fprintf(&b, "Issued At: %s", m.IssuedAt.Format(time.RFC3339))
	return b.String()
}

// ParseSIWEMessage reads back a message produced by String.
func ParseSIWEMessage(s string) (SIWEMessage, error) {
	lines := strings.Split(s, "\n")
	if len(lines) < siweLines {
		return SIWEMessage{}, fmt.Errorf("siwe: too few lines")
	}

	var m SIWEMessage
	domain, ok := strings.CutSuffix(lines[0], " wants you to sign in with your Ethereum account:")
	if !ok {
		return SIWEMessage{}, fmt.Errorf("siwe: bad header")
	}
	m.Domain = domain
	m.Address = lines[1]
	m.Statement = lines[3]

	fields := map[string]string{}
	for _, line := range lines[5:] {
		k, v, ok := strings.Cut(line, ": ")
		if !ok {
			return SIWEMessage{}, fmt.Errorf("siwe: bad field line %q", line)
		}
		fields[k] = v
	}

	m.URI = fields["URI"]
	m.Version = fields["Version"]
	m.Nonce = fields["Nonce"]

	chainID, err := strconv.Atoi(fields["Chain ID"])
	if err != nil {
		return SIWEMessage{}, fmt.Errorf("siwe: chain id: %w", err)
	}
	m.ChainID = chainID

	issued, err := time.Parse(time.RFC3339, fields["Issued At"])
	if err != nil {
		return SIWEMessage{}, fmt.Errorf("siwe: issued at: %w", err)
	}
	m.IssuedAt = issued

	if m.Address == "" || m.Nonce == "" {
		return SIWEMessage{}, fmt.Errorf("siwe: missing address or nonce")
	}
	return m, nil
}
