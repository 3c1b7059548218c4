package pkgsource

import (
	"encoding/json"
	"fmt"
)

// SourceInformation describes a remote package source, as returned by its
// information endpoint.
type SourceInformation struct {
	SourceIdentifier              string   `json:"SourceIdentifier"`
	ServerSupportedVersions       []string `json:"ServerSupportedVersions"`
	RequiredPackageMatchFields    []string `json:"RequiredPackageMatchFields,omitempty"`
	RequiredQueryParameters       []string `json:"RequiredQueryParameters,omitempty"`
	UnsupportedPackageMatchFields []string `json:"UnsupportedPackageMatchFields,omitempty"`
	UnsupportedQueryParameters    []string `json:"UnsupportedQueryParameters,omitempty"`
}

type informationEnvelope struct {
	Data *SourceInformation `json:"Data"`
}

// Locale carries the localized metadata block of a package version.
type Locale struct {
	PackageLocale    string   `json:"PackageLocale"`
	Publisher        string   `json:"Publisher,omitempty"`
	PackageName      string   `json:"PackageName,omitempty"`
	License          string   `json:"License,omitempty"`
	ShortDescription string   `json:"ShortDescription,omitempty"`
	Description      string   `json:"Description,omitempty"`
	Moniker          string   `json:"Moniker,omitempty"`
	Tags             []string `json:"Tags,omitempty"`
}

// Installer describes one downloadable artifact of a package version.
type Installer struct {
	InstallerIdentifier string `json:"InstallerIdentifier,omitempty"`
	InstallerType       string `json:"InstallerType"`
	InstallerURL        string `json:"InstallerUrl"`
	InstallerSha256     string `json:"InstallerSha256,omitempty"`
	Architecture        string `json:"Architecture"`
	Scope               string `json:"Scope,omitempty"`
}

// ManifestVersion is one version entry of a package manifest.
type ManifestVersion struct {
	PackageVersion string      `json:"PackageVersion"`
	Channel        string      `json:"Channel,omitempty"`
	DefaultLocale  *Locale     `json:"DefaultLocale,omitempty"`
	Locales        []Locale    `json:"Locales,omitempty"`
	Installers     []Installer `json:"Installers,omitempty"`
}

// Manifest is the full metadata document for one package.
type Manifest struct {
	PackageIdentifier string            `json:"PackageIdentifier"`
	Versions          []ManifestVersion `json:"Versions"`
}

type manifestEnvelope struct {
	Data *Manifest `json:"Data"`
}

// SearchVersion is the compact version entry of a search match.
type SearchVersion struct {
	PackageVersion string `json:"PackageVersion"`
	Channel        string `json:"Channel,omitempty"`
}

// SearchMatch is one package returned by the search endpoint.
type SearchMatch struct {
	PackageIdentifier string          `json:"PackageIdentifier"`
	PackageName       string          `json:"PackageName"`
	Publisher         string          `json:"Publisher"`
	Versions          []SearchVersion `json:"Versions"`
}

type searchEnvelope struct {
	Data []SearchMatch `json:"Data"`
}

// SearchRequest is the body posted to the search endpoint.
type SearchRequest struct {
	Query           *SearchQuery `json:"Query,omitempty"`
	MaximumResults  int          `json:"MaximumResults,omitempty"`
	FetchAllMatches bool         `json:"FetchAllManifests,omitempty"`
}

// SearchQuery is a keyword match request.
type SearchQuery struct {
	KeyWord   string `json:"KeyWord"`
	MatchType string `json:"MatchType"`
}

// ParseManifest decodes and validates a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var envelope manifestEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	manifest := envelope.Data
	if manifest == nil {
		return nil, fmt.Errorf("manifest document has no data")
	}
	if manifest.PackageIdentifier == "" {
		return nil, fmt.Errorf("manifest has no package identifier")
	}
	if len(manifest.Versions) == 0 {
		return nil, fmt.Errorf("manifest %s has no versions", manifest.PackageIdentifier)
	}
	for _, version := range manifest.Versions {
		if version.PackageVersion == "" {
			return nil, fmt.Errorf("manifest %s has a version entry without a package version", manifest.PackageIdentifier)
		}
		for _, installer := range version.Installers {
			if installer.InstallerURL == "" {
				return nil, fmt.Errorf("manifest %s version %s has an installer without a url", manifest.PackageIdentifier, version.PackageVersion)
			}
		}
	}

	return manifest, nil
}

// ParseSearchResponse decodes a search response.
func ParseSearchResponse(data []byte) ([]SearchMatch, error) {
	var envelope searchEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	for _, match := range envelope.Data {
		if match.PackageIdentifier == "" {
			return nil, fmt.Errorf("search match without a package identifier")
		}
	}

	return envelope.Data, nil
}
