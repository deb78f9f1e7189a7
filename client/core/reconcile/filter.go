package reconcile

import (
	"fmt"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
)

// TypeFilter 版本限定的结构体类型过滤器
//
// 匹配要求包地址(规范化后)、模块名、结构体名三者完全相等，
// 泛型参数不参与比较。不同版本包下的同名结构体互不匹配。
type TypeFilter struct {
	Package string
	Module  string
	Struct  string
}

// String 返回 pkg::module::Struct
func (f TypeFilter) String() string {
	return config.StructType(config.NormalizeAddress(f.Package), f.Module, f.Struct)
}

// Matches 判断对象类型字符串是否属于该过滤器
func (f TypeFilter) Matches(typ string) bool {
	if typ == "" || f.Package == "" {
		return false
	}
	tag, err := builder.ParseStructTag(typ)
	if err != nil {
		return false
	}
	return tag.Module == f.Module && tag.Name == f.Struct && config.SameAddress(tag.Address, f.Package)
}

// MatchesAny 任一过滤器匹配即返回 true
func MatchesAny(filters []TypeFilter, typ string) bool {
	for _, f := range filters {
		if f.Matches(typ) {
			return true
		}
	}
	return false
}

// FilterFor 返回最新版本包下的过滤器
func FilterFor(registry *config.Registry, env config.Environment, module, name string) (TypeFilter, error) {
	pkg := registry.LatestPackageAddress(env)
	if pkg == "" {
		return TypeFilter{}, fmt.Errorf("%w: package (%s)", builder.ErrNotDeployed, env)
	}
	return TypeFilter{Package: pkg, Module: module, Struct: name}, nil
}

// FilterForVersion 返回指定版本包下的过滤器
func FilterForVersion(registry *config.Registry, env config.Environment, label, module, name string) (TypeFilter, error) {
	pkg := registry.PackageAddress(env, label)
	if pkg == "" {
		return TypeFilter{}, fmt.Errorf("%w: package %s (%s)", builder.ErrNotDeployed, label, env)
	}
	return TypeFilter{Package: pkg, Module: module, Struct: name}, nil
}

// FiltersForAllVersions 为环境中每个已登记版本各生成一个过滤器，按发布顺序排列
//
// 升级后的包中，对象类型保留其结构体首次定义所在包的地址。
// 需要接受历史对象时显式使用这一组过滤器。
func FiltersForAllVersions(registry *config.Registry, env config.Environment, module, name string) []TypeFilter {
	labels := registry.Versions(env)
	filters := make([]TypeFilter, 0, len(labels))
	for _, label := range labels {
		filters = append(filters, TypeFilter{
			Package: registry.PackageAddress(env, label),
			Module:  module,
			Struct:  name,
		})
	}
	return filters
}
