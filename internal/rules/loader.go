package rules

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML rule set file and returns it with the raw bytes.
// KnownFields(true)로 오타/미사용 필드 즉시 실패.
func Load(path string) (*RuleSet, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	rs, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return rs, data, nil
}

// Parse decodes and validates a YAML rule set from memory.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&rs); err != nil {
		return nil, err
	}

	if err := Validate(&rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Hash generates a SHA256 hash of the rule set (canonical JSON).
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(rs *RuleSet) (string, error) {
	jsonBytes, err := json.Marshal(rs)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
