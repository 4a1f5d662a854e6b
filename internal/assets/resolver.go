package assets

import "errors"

// AssetResolver tries a custom asset directory before the built-in assets.
// Only not-found errors fall through to the next layer; invalid names and
// read failures are returned as they are.
type AssetResolver struct {
	layers []AssetLoader
}

// NewAssetResolver returns a resolver over customBasePath, if set, and the
// embedded assets.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

// LoadStyle implements AssetLoader.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return firstFound(r.layers, func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplateSet implements AssetLoader.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return firstFound(r.layers, func(l AssetLoader) (*TemplateSet, error) { return l.LoadTemplateSet(name) })
}

// HasCustomLoader reports whether a custom directory is layered on top.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.layers) > 1
}

func firstFound[T any](layers []AssetLoader, load func(AssetLoader) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	for _, l := range layers {
		var v T
		v, err = load(l)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrStyleNotFound) && !errors.Is(err, ErrTemplateSetNotFound) {
			return zero, err
		}
	}
	return zero, err
}

var _ AssetLoader = (*AssetResolver)(nil)
