package models

// KeywordSet is a named list of keywords that imply a tag and category when
// found in a transaction's merchant or description.
type KeywordSet struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Tag      Tag      `yaml:"tag"`
	Category Category `yaml:"category"`
}
