package core

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Renzo-Tognella/MultiAgentDeveloper/pkg/models"
)

// languageRule maps one language to its file extensions. Rules are kept as
// an ordered slice so detection is deterministic when extensions overlap.
type languageRule struct {
	language   string
	extensions []string
}

// AnalyzerConfig controls what the codebase analyzer looks for.
type AnalyzerConfig struct {
	Languages           []languageRule
	FrameworkIndicators map[string][]string
	KeyFiles            map[string]struct{}
	ExcludedDirs        map[string]struct{}
}

// DefaultAnalyzerConfig returns the standard detection rules.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Languages: []languageRule{
			{"JavaScript", []string{".js", ".jsx", ".mjs"}},
			{"TypeScript", []string{".ts", ".tsx"}},
			{"Ruby", []string{".rb"}},
			{"HTML", []string{".html", ".htm"}},
			{"CSS", []string{".css", ".scss", ".sass"}},
			{"Apex", []string{".cls", ".trigger"}},
			{"Python", []string{".py"}},
			{"Java", []string{".java"}},
			{"C#", []string{".cs"}},
		},
		FrameworkIndicators: map[string][]string{
			"React":         {"package.json", "src/App.jsx", "src/App.js"},
			"Ruby on Rails": {"Gemfile", "config/application.rb", "app/controllers/"},
			"Salesforce":    {"sfdx-project.json", "force-app/", ".sfdx/"},
			"Vue":           {"vue.config.js", "src/main.js"},
			"Angular":       {"angular.json", "src/app/"},
		},
		KeyFiles: map[string]struct{}{
			"package.json": {}, "Gemfile": {}, "requirements.txt": {}, "pom.xml": {}, "csproj": {},
		},
		ExcludedDirs: map[string]struct{}{
			"node_modules": {}, "__pycache__": {}, "target": {}, "build": {}, "dist": {}, ".git": {}, "vendor": {},
		},
	}
}

// CodebaseAnalyzer scans a project tree and reports detected languages,
// frameworks, and key build files. The result is treated downstream as
// opaque prompt context.
type CodebaseAnalyzer struct {
	config AnalyzerConfig
}

// NewCodebaseAnalyzer creates an analyzer with the default detection rules.
func NewCodebaseAnalyzer() *CodebaseAnalyzer {
	return &CodebaseAnalyzer{config: DefaultAnalyzerConfig()}
}

// Analyze walks the directory, skipping dot-directories and build output
// dirs, and collects detected technologies. Languages and frameworks are
// returned sorted; key files keep walk order.
func (a *CodebaseAnalyzer) Analyze(dir string) (models.CodebaseInfo, error) {
	languages := make(map[string]struct{})
	frameworks := make(map[string]struct{})
	var keyFiles []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, excluded := a.config.ExcludedDirs[name]; excluded {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		a.detectLanguage(name, languages)
		a.detectFramework(rel, name, frameworks)
		if _, key := a.config.KeyFiles[name]; key {
			keyFiles = append(keyFiles, rel)
		}
		return nil
	})
	if err != nil {
		return models.CodebaseInfo{}, fmt.Errorf("analyzing codebase at %s: %w", dir, err)
	}

	return models.CodebaseInfo{
		Languages:  sortedKeys(languages),
		Frameworks: sortedKeys(frameworks),
		KeyFiles:   keyFiles,
	}, nil
}

func (a *CodebaseAnalyzer) detectLanguage(filename string, languages map[string]struct{}) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return
	}
	for _, rule := range a.config.Languages {
		for _, e := range rule.extensions {
			if ext == e {
				languages[rule.language] = struct{}{}
				return
			}
		}
	}
}

func (a *CodebaseAnalyzer) detectFramework(relPath, filename string, frameworks map[string]struct{}) {
	for framework, indicators := range a.config.FrameworkIndicators {
		for _, indicator := range indicators {
			if strings.Contains(relPath, indicator) || filename == indicator {
				frameworks[framework] = struct{}{}
				break
			}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
