package assembler

import "go.trai.ch/qeb/internal/core/domain"

// DefaultRelocationRules returns the ordered relocation rules. The storage engine
// loader rule comes first so it wins over the generic native rule.
func DefaultRelocationRules() []domain.RelocationRule {
	return []domain.RelocationRule{
		{
			Pattern:            "**/node_modules/" + StorageModule + "/**.{js,cjs,mjs}",
			Test:               `node_modules[/\\]` + StorageModule + `[/\\].*\.[cm]?js`,
			Action:             domain.RelocateNative,
			PatchStorageLoader: true,
		},
		{
			Pattern: "**.{js,cjs,mjs,node}",
			Test:    `\.([cm]?js|node)$`,
			Action:  domain.RelocateNative,
		},
		{
			Pattern: "**.txt",
			Test:    `\.txt`,
			Action:  domain.CopyResource,
		},
	}
}

// NewDefaultPolicy compiles the default rules with assets written below domain.AssetBase.
func NewDefaultPolicy() (*domain.RelocationPolicy, error) {
	return domain.NewRelocationPolicy(domain.AssetBase, DefaultRelocationRules())
}
