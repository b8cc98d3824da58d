package languages

import (
	"errors"
	"fmt"
)

var ErrUnknownLanguage = errors.New("unknown language")

// Entry связывает отображаемое имя языка с кодом, который понимают STT и TTS бэкенды.
type Entry struct {
	DisplayName string `json:"name"`
	Code        string `json:"code"`
}

// Catalog is an immutable ordered name → code table. Safe for concurrent use.
type Catalog struct {
	entries []Entry
	byName  map[string]string
	byCode  map[string]string
}

var defaultEntries = []Entry{
	{DisplayName: "Hindi", Code: "hi"},
	{DisplayName: "Kannada", Code: "kn"},
	{DisplayName: "Telugu", Code: "te"},
	{DisplayName: "Tamil", Code: "ta"},
	{DisplayName: "Malayalam", Code: "ml"},
	{DisplayName: "English", Code: "en"},
	{DisplayName: "Spanish", Code: "es"},
	{DisplayName: "French", Code: "fr"},
	{DisplayName: "German", Code: "de"},
	{DisplayName: "Chinese (Simplified)", Code: "zh-CN"},
	{DisplayName: "Japanese", Code: "ja"},
	{DisplayName: "Russian", Code: "ru"},
}

// Default returns the canonical 12-language catalog.
func Default() *Catalog {
	c, err := New(defaultEntries...)
	if err != nil {
		panic(err)
	}
	return c
}

func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]string, len(entries)),
		byCode:  make(map[string]string, len(entries)),
	}

	for _, e := range entries {
		if e.DisplayName == "" || e.Code == "" {
			return nil, fmt.Errorf("language entry %+v: name and code required", e)
		}
		if _, dup := c.byName[e.DisplayName]; dup {
			return nil, fmt.Errorf("duplicate language %q", e.DisplayName)
		}
		c.entries = append(c.entries, e)
		c.byName[e.DisplayName] = e.Code
		if _, ok := c.byCode[e.Code]; !ok {
			c.byCode[e.Code] = e.DisplayName
		}
	}

	return c, nil
}

func (c *Catalog) CodeFor(name string) (string, error) {
	code, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return code, nil
}

func (c *Catalog) NameFor(code string) (string, error) {
	name, ok := c.byCode[code]
	if !ok {
		return "", fmt.Errorf("%w: code %q", ErrUnknownLanguage, code)
	}
	return name, nil
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Names returns display names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.DisplayName
	}
	return out
}

func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
