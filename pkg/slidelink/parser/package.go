package parser

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrPartNotFound is returned when a package part does not exist.
var ErrPartNotFound = errors.New("package part not found")

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// IsSlidePart reports whether name is a slide part path.
func IsSlidePart(name string) bool {
	return slidePartRe.MatchString(name)
}

// SlideParts returns slide part paths in presentation order. The order comes
// from ppt/presentation.xml and its relationships; when those cannot be read,
// slide parts are sorted by their numeric suffix.
func SlideParts(r *zip.Reader) []string {
	var all []string
	present := make(map[string]bool)
	for _, f := range r.File {
		if IsSlidePart(f.Name) {
			all = append(all, f.Name)
			present[f.Name] = true
		}
	}
	sortSlidePaths(all)

	presXML, err := ReadZipFile(r, "ppt/presentation.xml")
	if err != nil {
		return all
	}
	relsXML, err := ReadZipFile(r, "ppt/_rels/presentation.xml.rels")
	if err != nil {
		return all
	}

	targets := parsePresentationRels(relsXML)
	var ordered []string
	seen := make(map[string]bool)
	for _, rID := range parseSlideIDs(presXML) {
		target, ok := targets[rID]
		if !ok {
			continue
		}
		path := resolveRelativePath(target, "ppt")
		if present[path] && !seen[path] {
			ordered = append(ordered, path)
			seen[path] = true
		}
	}
	// Slides not referenced by the presentation keep numeric order at the end.
	for _, p := range all {
		if !seen[p] {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// ReadZipFile returns the bytes of the named part.
func ReadZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
}

func sortSlidePaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return slideNumber(paths[i]) < slideNumber(paths[j])
	})
}

func slideNumber(path string) int {
	m := slidePartRe.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// parseSlideIDs returns the r:id of every sldId in presentation order.
func parseSlideIDs(data []byte) []string {
	var ids []string
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sldId" {
			for _, attr := range se.Attr {
				if attr.Name.Local == "id" && attr.Name.Space == NsR {
					ids = append(ids, attr.Value)
				}
			}
		}
	}

	return ids
}

// parsePresentationRels maps relationship ids to slide targets.
func parsePresentationRels(data []byte) map[string]string {
	result := make(map[string]string) // rId -> target
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if rID != "" && strings.HasSuffix(relType, "/slide") {
				result[rID] = target
			}
		}
	}

	return result
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	parts := strings.Split(baseDir, "/")
	for _, seg := range strings.Split(target, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}
