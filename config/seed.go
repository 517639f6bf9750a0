package config

import (
	_ "embed"
	"fmt"

	"github.com/andrewpaige1/formbook-api/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed topics.yaml
var topicsYAML []byte

type seedFile struct {
	Topics []string `yaml:"topics"`
}

// DefaultTopics returns the topic names shipped with the binary.
func DefaultTopics() ([]string, error) {
	var f seedFile
	if err := yaml.Unmarshal(topicsYAML, &f); err != nil {
		return nil, fmt.Errorf("parse topics.yaml: %w", err)
	}
	return f.Topics, nil
}

// SeedTopics inserts any default topic that is missing. It returns the
// number of topics created.
func SeedTopics(db *gorm.DB) (int, error) {
	names, err := DefaultTopics()
	if err != nil {
		return 0, err
	}
	created := 0
	for _, name := range names {
		topic := models.Topic{Name: name}
		res := db.Where(models.Topic{Name: name}).FirstOrCreate(&topic)
		if res.Error != nil {
			return created, fmt.Errorf("seed topic %q: %w", name, res.Error)
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}
