package catalog

import "strings"

const uploadsPrefix = "uploads/"

// AbsoluteImageURL rewrites a backend image reference to an absolute URL.
// Already-absolute references pass through unchanged; bare filenames and
// backend-relative paths get a single uploads prefix under the given root,
// so "/uploads/foo.jpg" and "foo.jpg" resolve to the same address.
func AbsoluteImageURL(uploadsBase, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	path := strings.TrimPrefix(ref, "/")
	if !strings.HasPrefix(path, uploadsPrefix) {
		path = uploadsPrefix + path
	}
	return strings.TrimRight(uploadsBase, "/") + "/" + path
}

// normalizeProduct guarantees images is never nil and every reference is
// absolute; the grid, detail and cart line renderings all rely on this.
func (s *Service) normalizeProduct(p *Product) {
	if p.Images == nil {
		p.Images = []string{}
	}
	p.ImagePath = AbsoluteImageURL(s.uploadsURL, p.ImagePath)
	for i, img := range p.Images {
		p.Images[i] = AbsoluteImageURL(s.uploadsURL, img)
	}
}
