package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// RegistryFile 注册表覆盖文件格式
//
//	environments:
//	  testnet:
//	    versions:
//	      - label: v5
//	        address: "0x..."
//	    latest: v5
type RegistryFile struct {
	Environments map[string]RegistryEntry `yaml:"environments"`
}

// ParseRegistryOverrides 解析YAML覆盖内容并合并到 base
func ParseRegistryOverrides(base *Registry, data []byte) (*Registry, error) {
	var file RegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry overrides: %w", err)
	}

	// 按环境名排序，保证错误信息稳定
	names := make([]string, 0, len(file.Environments))
	for name := range file.Environments {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := base
	for _, name := range names {
		env, err := ParseEnvironment(name)
		if err != nil {
			return nil, err
		}
		merged, err = merged.Merge(env, file.Environments[name])
		if err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// LoadRegistryFile 读取YAML覆盖文件并合并到 base
func LoadRegistryFile(base *Registry, path string) (*Registry, error) {
	//nolint:gosec // G304: path 由用户通过命令行指定
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	return ParseRegistryOverrides(base, data)
}

// MarshalRegistry 将注册表导出为覆盖文件格式
func MarshalRegistry(r *Registry) ([]byte, error) {
	file := RegistryFile{Environments: make(map[string]RegistryEntry, len(r.entries))}
	for env, entry := range r.entries {
		file.Environments[string(env)] = entry.clone()
	}
	return yaml.Marshal(&file)
}
