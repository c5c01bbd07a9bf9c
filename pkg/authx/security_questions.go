package authx

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SecurityQuestion pairs a recovery question with the hash of its answer.
// Answers are normalized (trimmed, lowercased) before hashing so "Rex " and
// "rex" match.
type SecurityQuestion struct {
	Question   string `json:"question"`
	AnswerHash string `json:"answer_hash"`
}

// HashAnswer normalizes and hashes a security answer for storage.
func HashAnswer(answer string) string {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// VerifySecurityAnswers checks every provided answer against the stored
// question set. All questions must be answered and all answers must match.
func VerifySecurityAnswers(stored []SecurityQuestion, answers map[string]string) bool {
	if len(stored) == 0 || len(answers) < len(stored) {
		return false
	}
	for _, q := range stored {
		answer, ok := answers[q.Question]
		if !ok {
			return false
		}
		got := HashAnswer(answer)
		if subtle.ConstantTimeCompare([]byte(got), []byte(q.AnswerHash)) != 1 {
			return false
		}
	}
	return true
}
