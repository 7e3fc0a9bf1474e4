package summarizer

import "fmt"

const (
	// maxWordLimit is the largest summary length any adapter accepts.
	// distilbart-cnn-12-6 generates at most 1024 tokens.
	maxWordLimit = 1000
)

// ValidateLengths validates a requested summary length range in words.
// Returns an error if either bound is non-positive, the range is inverted,
// or maxLength exceeds what the backends can generate.
//
// Example:
//
//	err := ValidateLengths(100, 30)   // nil (valid)
//	err := ValidateLengths(30, 100)   // error: "min length 100 is greater than max length 30"
//	err := ValidateLengths(2000, 50)  // error: "max length 2000 exceeds maximum 1000"
func ValidateLengths(maxLength, minLength int) error {
	if maxLength <= 0 {
		return fmt.Errorf("max length must be positive, got %d", maxLength)
	}
	if minLength <= 0 {
		return fmt.Errorf("min length must be positive, got %d", minLength)
	}
	if minLength > maxLength {
		return fmt.Errorf("min length %d is greater than max length %d", minLength, maxLength)
	}
	if maxLength > maxWordLimit {
		return fmt.Errorf("max length %d exceeds maximum %d", maxLength, maxWordLimit)
	}
	return nil
}
