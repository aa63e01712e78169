package glubsite

import (
	"net/http"
	"os"
	"path"
	"strings"
)

// StaticHandler serves files from a content root without directory
// listings or dotfiles. It is an http.FileSystem itself, so handlers can be
// rooted at subdirectories with Cd.
type StaticHandler struct {
	fs     http.FileSystem
	prefix string
}

func NewStaticHandler(fs http.FileSystem) StaticHandler {
	return StaticHandler{fs: fs}
}

func (sh StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := sh.Open(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}

// Cd returns a handler rooted at dir below the current root.
func (sh StaticHandler) Cd(dir string) StaticHandler {
	sh.prefix = path.Join(sh.prefix, path.Clean("/"+dir))
	return sh
}

func (sh StaticHandler) Open(name string) (http.File, error) {
	name = path.Clean("/" + name)
	for _, elem := range strings.Split(name, "/") {
		if strings.HasPrefix(elem, ".") {
			return nil, os.ErrNotExist
		}
	}
	return sh.fs.Open(path.Join(sh.prefix, name))
}
