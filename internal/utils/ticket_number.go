package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/yukikurage/streamline-api/internal/constants"
)

// GenerateTicketNumber generates a ticket identifier in the format TKT-XXXX-XXXX
func GenerateTicketNumber() (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	hex := strings.ToUpper(hex.EncodeToString(bytes))
	return fmt.Sprintf("%s-%s-%s",
		constants.TicketNumberPrefix,
		hex[0:4],
		hex[4:8],
	), nil
}
