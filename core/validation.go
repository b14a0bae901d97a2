// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"unicode"
)

// ValidateCatalogItem validates a CatalogItem according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - TextBlob must not be empty (it is the unit that gets embedded)
//   - TestType, when present, must be a single letter
//   - DurationMinutes, when present, must not be negative
//
// NOT validated:
//   - URL (empty is valid; marks a synthetic entry)
//   - Category, Description, Tags (optional free text)
func ValidateCatalogItem(item *CatalogItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidCatalogItem)
	}

	if item.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, ErrEmptyName)
	}

	if item.TextBlob == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, ErrEmptyTextBlob)
	}

	if err := ValidateTestType(item.TestType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, err)
	}

	if item.DurationMinutes != nil && *item.DurationMinutes < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, ErrNegativeDuration)
	}

	return nil
}

// ValidateTestType validates a test-type code. An empty code is valid
// (test type is optional); otherwise it must be a single letter.
func ValidateTestType(code string) error {
	if code == "" {
		return nil
	}
	runes := []rune(code)
	if len(runes) != 1 || !unicode.IsLetter(runes[0]) {
		return fmt.Errorf("%w: %q", ErrInvalidTestType, code)
	}
	return nil
}
