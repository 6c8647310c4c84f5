package assets

// AssetResolver layers an optional custom directory over the embedded
// assets. An asset missing from the custom directory comes from the
// embedded set; any other failure there (bad name, escape, unreadable file)
// is returned as is.
type AssetResolver struct {
	layers []AssetLoader // custom first, embedded last
}

// NewAssetResolver returns a resolver over dir, or over the embedded
// assets alone when dir is empty.
func NewAssetResolver(dir string) (*AssetResolver, error) {
	r := &AssetResolver{}
	if dir != "" {
		custom, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.layers = append(r.layers, custom)
	}
	r.layers = append(r.layers, NewEmbeddedLoader())
	return r, nil
}

// HasCustomLoader reports whether a custom directory is layered in.
func (r *AssetResolver) HasCustomLoader() bool {
	return len(r.layers) > 1
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

func (r *AssetResolver) LoadPrompt(name string) (string, error) {
	return r.first(func(l AssetLoader) (string, error) { return l.LoadPrompt(name) })
}

func (r *AssetResolver) first(load func(AssetLoader) (string, error)) (content string, err error) {
	for _, l := range r.layers {
		content, err = load(l)
		if err == nil || !isNotFoundError(err) {
			return content, err
		}
	}
	return "", err
}

var _ AssetLoader = (*AssetResolver)(nil)
