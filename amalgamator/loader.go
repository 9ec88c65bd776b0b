package amalgamator

import (
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/meysamhadeli/amalgam/amalgamator/models"
)

// EncodingPolicy decides what happens to source files that are not valid UTF-8.
type EncodingPolicy string

const (
	EncodingStrict  EncodingPolicy = "strict"
	EncodingReplace EncodingPolicy = "replace"
)

// ParseEncodingPolicy accepts "strict", "replace" or an empty string (strict).
func ParseEncodingPolicy(value string) (EncodingPolicy, error) {
	switch EncodingPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", EncodingStrict:
		return EncodingStrict, nil
	case EncodingReplace:
		return EncodingReplace, nil
	default:
		return "", fmt.Errorf("%w: %q (use 'strict' or 'replace')", ErrUnknownPolicy, value)
	}
}

// sourceLoader reads, decodes and strips source files, consulting the cache when one is set.
type sourceLoader struct {
	policy EncodingPolicy
	cache  *CacheManager
}

func (l *sourceLoader) Load(path string) (*models.SourceFile, bool, error) {
	if l.cache != nil {
		if stripped, found := l.cache.GetStrippedCache(path, string(l.policy)); found {
			return &models.SourceFile{Path: path, Stripped: stripped}, true, nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read file: %s, error: %w", path, err)
	}

	raw, err := l.decode(path, content)
	if err != nil {
		return nil, false, err
	}

	source := &models.SourceFile{
		Path:     path,
		Raw:      raw,
		Stripped: StripComments(raw),
	}

	if l.cache != nil {
		if err := l.cache.SetStrippedCache(path, string(l.policy), source.Stripped); err != nil {
			log.Printf("Warning: Failed to cache %s: %v", path, err)
		}
	}

	return source, false, nil
}

func (l *sourceLoader) decode(path string, content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	if l.policy == EncodingReplace {
		return strings.ToValidUTF8(string(content), string(utf8.RuneError)), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
}
