package serializers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RequestContext guarda lo necesario de la petición para construir enlaces absolutos
type RequestContext struct {
	scheme string
	host   string
	prefix string
	url    url.URL
}

func FromRequest(r *http.Request, prefix string) RequestContext {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	// solo se aceptan esquemas web; cualquier otro valor de la cabecera se ignora
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
		case "http", "https":
			scheme = p
		}
	}

	return RequestContext{
		scheme: scheme,
		host:   r.Host,
		prefix: strings.TrimRight(prefix, "/"),
		url:    *r.URL,
	}
}

// Resource devuelve la URL absoluta de un recurso, p. ej. Resource("collections", id)
func (rc RequestContext) Resource(segments ...string) string {
	var b strings.Builder
	b.WriteString(rc.scheme)
	b.WriteString("://")
	b.WriteString(rc.host)
	b.WriteString(rc.prefix)
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	b.WriteString("/")
	return b.String()
}

// Page devuelve la URL de la petición actual apuntando a otra página.
// La primera página se enlaza sin parámetro page.
func (rc RequestContext) Page(page int) string {
	u := rc.url
	u.Scheme = rc.scheme
	u.Host = rc.host

	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
