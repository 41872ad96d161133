package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// persistEnabled rewrites the override file so id appears in exactly one of
// the enable/disable lists. The file is written to a temp file and renamed
// into place so a crash mid-write leaves the previous file intact.
func (l *Loader) persistEnabled(fw string, cat Category, id string, enabled bool) error {
	p := l.overridePath(fw, cat)

	var doc ruleDoc
	if data, err := os.ReadFile(p); err == nil {
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("existing override file %s is malformed: %w", p, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	doc.Disable = removeString(doc.Disable, id)
	doc.Enable = removeString(doc.Enable, id)
	if enabled {
		doc.Enable = append(doc.Enable, id)
	} else {
		doc.Disable = append(doc.Disable, id)
	}

	return writeFileAtomic(p, &doc)
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func writeFileAtomic(p string, doc *ruleDoc) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(p), ".override-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
