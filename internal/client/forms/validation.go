// Package forms validates user input before anything is sent to the backend
// or the image host. Each form has a Validate method returning nil or a
// *ValidationError; none of them performs network I/O.
package forms

import (
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/filex"
)

const (
	MaxImages          = 5
	MaxImageSize       = 5 << 20
	MaxDescriptionLen  = 1000
	MinPasswordLen     = 8
	DateLayout         = "2006-01-02"
	MsgDetailsRequired = "Please provide at least one identifying detail."
)

var allowedImageExt = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// now is the clock for "not in the future" checks; tests replace it.
var now = time.Now

// ValidationError reports the first problem in Message and every problem in
// Fields, keyed by field name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type checker struct {
	first  string
	fields map[string]string
}

func (c *checker) fail(field, msg string) {
	if c.fields == nil {
		c.fields = map[string]string{}
	}
	if _, ok := c.fields[field]; ok {
		return
	}
	c.fields[field] = msg
	if c.first == "" {
		c.first = msg
	}
}

func (c *checker) required(field, label, v string) bool {
	if strings.TrimSpace(v) == "" {
		c.fail(field, label+" is required")
		return false
	}
	return true
}

func (c *checker) email(field, v string) {
	if !c.required(field, "Email", v) {
		return
	}
	if !ValidEmail(v) {
		c.fail(field, "Please enter a valid email address")
	}
}

func (c *checker) phone(field, v string, optional bool) {
	if strings.TrimSpace(v) == "" {
		if !optional {
			c.fail(field, "Phone is required")
		}
		return
	}
	if !ValidPhone(v) {
		c.fail(field, "Please enter a valid phone number")
	}
}

func (c *checker) password(field, v string) {
	if !c.required(field, "Password", v) {
		return
	}
	if !StrongPassword(v) {
		c.fail(field, fmt.Sprintf("Password must be at least %d characters and contain a letter and a number", MinPasswordLen))
	}
}

func (c *checker) confirm(field, password, confirmation string) {
	if password != confirmation {
		c.fail(field, "Passwords do not match")
	}
}

func (c *checker) date(field, label, v string) {
	if !c.required(field, label, v) {
		return
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		c.fail(field, label+" must be in YYYY-MM-DD format")
		return
	}
	today := now()
	y, m, day := today.Date()
	if d.After(time.Date(y, m, day, 0, 0, 0, 0, time.UTC)) {
		c.fail(field, label+" cannot be in the future")
	}
}

func (c *checker) description(field, v string) {
	if len([]rune(v)) > MaxDescriptionLen {
		c.fail(field, fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLen))
	}
}

func (c *checker) images(field string, paths []string) {
	if len(paths) > MaxImages {
		c.fail(field, fmt.Sprintf("You can upload at most %d images", MaxImages))
		return
	}
	for _, p := range paths {
		if err := ValidateImage(p); err != nil {
			c.fail(field, err.Error())
			return
		}
	}
}

func (c *checker) err() error {
	if c.first == "" {
		return nil
	}
	return &ValidationError{Message: c.first, Fields: c.fields}
}

// ValidEmail accepts a bare address such as ann@example.com.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	a, err := mail.ParseAddress(s)
	if err != nil || a.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return strings.Contains(s[at+1:], ".")
}

// ValidPhone accepts 7 to 15 digits with an optional leading '+'. Spaces,
// dashes and parentheses are ignored.
func ValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// StrongPassword requires MinPasswordLen characters with a letter and a digit.
func StrongPassword(s string) bool {
	if len([]rune(s)) < MinPasswordLen {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// ValidateImage checks the extension and size of a local image file.
func ValidateImage(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := allowedImageExt[ext]; !ok {
		return fmt.Errorf("%s: only JPG, PNG, GIF and WEBP images are allowed", filepath.Base(path))
	}
	size, err := filex.FileSize(path)
	if err != nil {
		return fmt.Errorf("%s: cannot read file", filepath.Base(path))
	}
	if size > MaxImageSize {
		return fmt.Errorf("%s: image must be smaller than 5MB", filepath.Base(path))
	}
	return nil
}

// filledDetails reports whether at least one pair has a non-empty key and
// value after trimming.
func filledDetails(details []models.Detail) bool {
	return len(models.DetailsToMap(details)) > 0
}
