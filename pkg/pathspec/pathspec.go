// Package pathspec centralizes the on-disk layout of a zedstore root
// directory, following the teacher's pathspec.DriverRoot convention of one
// method per path instead of scattered filepath.Join calls.
package pathspec

import (
	"path/filepath"

	"github.com/opencontainers/go-digest"
)

// Root represents the store root directory, default "/var/lib/zedstore".
type Root string

// String returns the root path.
func (r Root) String() string {
	return string(r)
}

// Path joins elems under the root.
func (r Root) Path(elems ...string) string {
	return filepath.Join(append([]string{string(r)}, elems...)...)
}

// DistributionFile returns "<root>/distribution.json".
func (r Root) DistributionFile() string {
	return r.Path("distribution.json")
}

// RepositoriesDir returns "<root>/repositories".
func (r Root) RepositoriesDir() string {
	return r.Path("repositories")
}

// RepositoryIndexFile returns "<root>/repositories/<name>.json".
func (r Root) RepositoryIndexFile(name string) string {
	return filepath.Join(r.RepositoriesDir(), name+".json")
}

// OCILayoutFile returns "<root>/repositories/oci-layout".
func (r Root) OCILayoutFile() string {
	return filepath.Join(r.RepositoriesDir(), "oci-layout")
}

// ManifestsDir returns "<root>/manifests".
func (r Root) ManifestsDir() string {
	return r.Path("manifests")
}

// ManifestFile returns "<root>/manifests/<manifest_id>".
func (r Root) ManifestFile(manifestID digest.Digest) string {
	return filepath.Join(r.ManifestsDir(), manifestID.Encoded())
}

// ConfigsDir returns "<root>/configs".
func (r Root) ConfigsDir() string {
	return r.Path("configs")
}

// ConfigFile returns "<root>/configs/<config_id>".
func (r Root) ConfigFile(configID digest.Digest) string {
	return filepath.Join(r.ConfigsDir(), configID.Encoded())
}

// LayersDir returns "<root>/layers".
func (r Root) LayersDir() string {
	return r.Path("layers")
}

// LayerBlobFile returns "<root>/layers/<blob_id>".
func (r Root) LayerBlobFile(blobID digest.Digest) string {
	return filepath.Join(r.LayersDir(), blobID.Encoded())
}

// LayerMetadataFile returns "<root>/layers/<blob_id>.meta.json", the sidecar
// record pairing a blob with the graph node it materializes (diff-id,
// node-id, parent node-id) so a later process can reconstruct a Layer view
// without recomputing content hashes.
func (r Root) LayerMetadataFile(blobID digest.Digest) string {
	return filepath.Join(r.LayersDir(), blobID.Encoded()+".meta.json")
}

// ContainersDir returns "<root>/containers".
func (r Root) ContainersDir() string {
	return r.Path("containers")
}

// ContainerDir returns "<root>/containers/<container_id>".
func (r Root) ContainerDir(containerID string) string {
	return filepath.Join(r.ContainersDir(), containerID)
}

// ContainerMetadataFile returns "<root>/containers/<container_id>/container.json".
func (r Root) ContainerMetadataFile(containerID string) string {
	return filepath.Join(r.ContainerDir(containerID), "container.json")
}

// ContainerConfigFile returns "<root>/containers/<container_id>/config.json".
func (r Root) ContainerConfigFile(containerID string) string {
	return filepath.Join(r.ContainerDir(containerID), "config.json")
}

// RuntimeListFile returns "<root>/runtime.json".
func (r Root) RuntimeListFile() string {
	return r.Path("runtime.json")
}

// GraphRoot returns "<root>/graph", the mountpoint namespace for graph nodes.
func (r Root) GraphRoot() string {
	return r.Path("graph")
}

// NodeMountPath returns "<root>/graph/<node_id>".
func (r Root) NodeMountPath(nodeID string) string {
	return filepath.Join(r.GraphRoot(), nodeID)
}
