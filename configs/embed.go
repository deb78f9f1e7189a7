// Package configs 内嵌的配置模板
package configs

import _ "embed"

// RegistryExample 注册表覆盖文件模板
//
//go:embed registry.example.yaml
var RegistryExample []byte
