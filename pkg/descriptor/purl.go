// pkg/descriptor/purl.go
package descriptor

import (
	"path"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

// PackageURLType is the purl type used for dependencies
const PackageURLType = "brew"

// PackageURL renders a dependency as a package URL, e.g.
// "pkg:brew/numpy?options=with-python3". Tap-qualified names keep the tap
// as the namespace.
func PackageURL(dep Dependency) string {
	namespace, name := path.Split(dep.Name)
	namespace = strings.TrimSuffix(namespace, "/")

	var qualifiers packageurl.Qualifiers
	if len(dep.Options) > 0 {
		qualifiers = packageurl.QualifiersFromMap(map[string]string{
			"options": strings.Join(dep.Options, ","),
		})
	}

	return packageurl.NewPackageURL(PackageURLType, namespace, name, "", qualifiers, "").ToString()
}
