package lib

import (
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// JSONNames hands out horse names from a JSON array without repeating a name
// until the whole pool has been used.
type JSONNames struct {
	names   []string
	indexes []int
}

func NewJSONNames(data []byte) (*JSONNames, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("could not parse names data: %w", err)
	}

	seen := make(map[string]struct{}, len(names))
	var unique []string
	for _, name := range names {
		if name == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	if len(unique) == 0 {
		return nil, errors.New("there are no names in the names data")
	}

	log.Debugf("created new names generator with %v names", len(unique))
	jn := &JSONNames{names: unique}
	jn.generateNameIndexes()
	return jn, nil
}

func (jn *JSONNames) NameCount() int {
	return len(jn.names)
}

// GetRandomName returns a name not handed out since the pool was last reset.
func (jn *JSONNames) GetRandomName() (string, error) {
	i, err := GetRandomInt(0, len(jn.indexes))
	if err != nil {
		log.Errorf("could not retrieve random int for picking a name: %v", err)
		return "", err
	}

	name := jn.names[jn.indexes[i]]

	if len(jn.indexes) == 1 {
		jn.generateNameIndexes()
	} else {
		jn.indexes = append(jn.indexes[:i], jn.indexes[i+1:]...)
	}

	return name, nil
}

// Pick returns n distinct names. When the pool is smaller than n, later names
// get a numeric suffix so the result stays unique.
func (jn *JSONNames) Pick(n int) ([]string, error) {
	jn.generateNameIndexes()

	out := make([]string, 0, n)
	seen := make(map[string]int, n)
	for len(out) < n {
		name, err := jn.GetRandomName()
		if err != nil {
			return nil, err
		}

		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%v (%v)", name, seen[name])
		}

		out = append(out, name)
	}

	return out, nil
}

func (jn *JSONNames) generateNameIndexes() {
	n := len(jn.names)
	jn.indexes = make([]int, n)
	for i := 0; i < n; i++ {
		jn.indexes[i] = i
	}
}
