package serialize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode/utf8"

	securejoin "github.com/cyphar/filepath-securejoin"

	o "github.com/launchdarkly/regression-test-harness/framework/opt"
)

// MismatchMarker is the diagnostic returned by DefaultCompare when two values are not equal.
const MismatchMarker = "did not match"

// Serializer converts regression results of some type to and from their stored form, and
// decides whether a new result matches a stored reference.
//
// Implementations must be deterministic and have no side effects; all file handling is done by
// Save and Load.
type Serializer interface {
	// Binary returns true if records are transferred as raw bytes, or false for text records.
	Binary() bool

	// Extension returns the record file extension, without a leading dot.
	Extension() string

	// Serialize writes the stored form of value to w.
	Serialize(value any, w io.Writer) error

	// Deserialize reads a stored value back from r.
	Deserialize(r io.Reader) (any, error)

	// Compare returns an empty Maybe if result matches reference, or a diagnostic describing the
	// difference.
	Compare(result, reference any) o.Maybe[string]
}

// FileSystem is the narrow set of file primitives that regression records are read and written
// through. Record paths are built with RecordPath, which only consults the real file system
// when fsys is an OSFileSystem.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
	Remove(name string) error
}

// OSFileSystem is the FileSystem backed by the os package.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error)        { return os.Stat(name) }
func (OSFileSystem) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (OSFileSystem) Open(name string) (io.ReadCloser, error)      { return os.Open(name) }
func (OSFileSystem) Create(name string) (io.WriteCloser, error)   { return os.Create(name) }
func (OSFileSystem) Remove(name string) error                     { return os.Remove(name) }

// Builtin returns one instance of each serializer in this package.
func Builtin() []Serializer {
	return []Serializer{
		StringSerializer{}, BytesSerializer{}, JSONSerializer{},
		YAMLSerializer{}, TOMLSerializer{}, TxtarSerializer{},
	}
}

// ForExtension returns the built-in serializer whose records have the extension of path.
func ForExtension(path string) (Serializer, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, s := range Builtin() {
		if s.Extension() == ext {
			return s, true
		}
	}
	return nil, false
}

// RecordPath joins name onto dir so that the result stays inside dir. For an OSFileSystem,
// symbolic links are resolved as if dir were the file system root; for any other FileSystem, the
// name is confined lexically. A name that resolves to dir itself, such as "", "." or "..", is an
// error, since it does not name anything inside dir.
func RecordPath(fsys FileSystem, dir, name string) (string, error) {
	var path string
	if _, ok := fsys.(OSFileSystem); ok {
		var err error
		if path, err = securejoin.SecureJoin(dir, name); err != nil {
			return "", err
		}
	} else {
		path = filepath.Join(dir, filepath.Clean(string(filepath.Separator)+name))
	}
	if filepath.Clean(path) == filepath.Clean(dir) {
		return "", fmt.Errorf("%q does not name a record inside %s", name, dir)
	}
	return path, nil
}

// Name returns a short human-readable name for a serializer, for use in messages.
func Name(s Serializer) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Extend adds "." + s.Extension() to path unless path already ends with it.
func Extend(s Serializer, path string) string {
	dotted := "." + s.Extension()
	if strings.HasSuffix(path, dotted) {
		return path
	}
	return path + dotted
}

// Exists reports whether a record for s exists at path (after Extend).
func Exists(fsys FileSystem, s Serializer, path string) (bool, error) {
	_, err := fsys.Stat(Extend(s, path))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Save writes value as a record at path (after Extend), creating parent directories as needed.
// The value is serialized in memory first; the file handle is always closed, and a record
// whose write failed is removed again.
func Save(fsys FileSystem, s Serializer, value any, path string) (err error) {
	path = Extend(s, path)
	if dir := filepath.Dir(path); dir != "" {
		if _, statErr := fsys.Stat(dir); statErr != nil {
			if err := fsys.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("cannot create directory for regression record %q: %w", path, err)
			}
		}
	}

	var buf bytes.Buffer
	serializeErr := s.Serialize(value, &buf)
	if serializeErr == nil && !s.Binary() && !utf8.Valid(buf.Bytes()) {
		serializeErr = errors.New("text serializer produced invalid UTF-8")
	}

	// A record that failed to serialize is never created, so it cannot become a baseline.
	if serializeErr != nil {
		return fmt.Errorf("cannot serialize regression record %q: %w", path, serializeErr)
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create regression record %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("cannot close regression record %q: %w", path, closeErr)
		}
		if err != nil {
			_ = fsys.Remove(path) // a partial record must not become the baseline
		}
	}()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("cannot write regression record %q: %w", path, err)
	}
	return nil
}

// Load reads the record at path (after Extend) and deserializes it. Text records have their
// line endings normalized to "\n".
func Load(fsys FileSystem, s Serializer, path string) (value any, err error) {
	path = Extend(s, path)
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open regression record %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("cannot close regression record %q: %w", path, closeErr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read regression record %q: %w", path, err)
	}
	if !s.Binary() {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("regression record %q is not valid UTF-8 text", path)
		}
		data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	}
	value, err = s.Deserialize(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot deserialize regression record %q: %w", path, err)
	}
	return value, nil
}

// DefaultCompare is value equality by reflect.DeepEqual, reporting MismatchMarker on a difference.
func DefaultCompare(result, reference any) o.Maybe[string] {
	if reflect.DeepEqual(result, reference) {
		return o.None[string]()
	}
	return o.Some(MismatchMarker)
}

func wrongType(s Serializer, value any) error {
	return fmt.Errorf("%s cannot serialize a value of type %T", Name(s), value)
}
