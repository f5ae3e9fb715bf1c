// internal/upload/resolver.go

// Package upload derives storage paths for uploaded entity images.
//
// A path has the form
//
//	{root}/{lowercased type name}_{postfix}/{field value}/{field value}.{ext}
//
// so a Beat with slug "lofi-dream" and file "cover.png" is stored at
// images/beat_beats_images/lofi-dream/lofi-dream.png.
package upload

import (
	"fmt"
	"strings"
)

// Entity is anything the resolver can read a path component from.
type Entity interface {
	TypeName() string
	FieldValue(field string) (string, bool)
}

// ContentHolder wraps another object, like a cart line item does.
type ContentHolder interface {
	ContentObject() (any, error)
}

type Rule struct {
	Field   string
	Postfix string
}

type Config struct {
	Root    string
	Rules   map[string]Rule
	Default *Rule
}

func DefaultConfig() Config {
	return Config{
		Root: "images",
		Rules: map[string]Rule{
			"Beatmaker": {Field: "slug", Postfix: "beatmakers_images"},
			"Beat":      {Field: "slug", Postfix: "beats_images"},
			"Playlist":  {Field: "slug", Postfix: "playlists_images"},
		},
		Default: &Rule{Field: "slug", Postfix: "uploads"},
	}
}

func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: empty root", ErrInvalidConfig)
	}
	for name, rule := range c.Rules {
		if name == "" || rule.Field == "" || rule.Postfix == "" {
			return fmt.Errorf("%w: incomplete rule for %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Resolver is safe for concurrent use; its config is copied at construction.
type Resolver struct {
	root        string
	rules       map[string]Rule
	defaultRule Rule
	hasDefault  bool
}

func NewResolver(cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Resolver{
		root:  strings.TrimSuffix(cfg.Root, "/"),
		rules: make(map[string]Rule, len(cfg.Rules)),
	}
	for name, rule := range cfg.Rules {
		r.rules[name] = rule
	}
	// A default without a field or postfix is treated as absent.
	if cfg.Default != nil && cfg.Default.Field != "" && cfg.Default.Postfix != "" {
		r.defaultRule = *cfg.Default
		r.hasDefault = true
	}
	return r, nil
}

// Rule returns the rule applied to typeName.
func (r *Resolver) Rule(typeName string) (Rule, error) {
	if rule, ok := r.rules[typeName]; ok {
		return rule, nil
	}
	if r.hasDefault {
		return r.defaultRule, nil
	}
	return Rule{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, typeName)
}

// Path resolves using the instance's own type name.
func (r *Resolver) Path(instance any, filename string) (string, error) {
	typeName := ""
	if e, ok := instance.(Entity); ok {
		typeName = e.TypeName()
	}
	return r.ResolvePath(typeName, instance, filename)
}

// ResolvePath builds the storage path for filename uploaded to instance.
// A ContentHolder is replaced by its content object first, one level only;
// the type name then comes from the content object.
func (r *Resolver) ResolvePath(typeName string, instance any, filename string) (string, error) {
	target := instance
	if holder, ok := instance.(ContentHolder); ok {
		obj, err := holder.ContentObject()
		if err != nil {
			return "", err
		}
		target = obj
		if e, ok := obj.(Entity); ok {
			typeName = e.TypeName()
		}
	}

	rule, err := r.Rule(typeName)
	if err != nil {
		return "", err
	}

	entity, ok := target.(Entity)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrNotAnEntity, target)
	}

	value, ok := entity.FieldValue(rule.Field)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s.%s", ErrMissingField, typeName, rule.Field)
	}

	ext, err := Extension(filename)
	if err != nil {
		return "", err
	}

	dir := fmt.Sprintf("%s_%s", strings.ToLower(typeName), rule.Postfix)
	return fmt.Sprintf("%s/%s/%s/%s.%s", r.root, dir, value, value, ext), nil
}

// Unwrap substitutes a ContentHolder with its content object.
func Unwrap(instance any) (any, error) {
	holder, ok := instance.(ContentHolder)
	if !ok {
		return instance, nil
	}
	return holder.ContentObject()
}

// Extension returns the text after the last dot of filename.
func Extension(filename string) (string, error) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "", fmt.Errorf("%w: %q", ErrNoExtension, filename)
	}
	ext := filename[idx+1:]
	if strings.ContainsAny(ext, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtension, filename)
	}
	return ext, nil
}
