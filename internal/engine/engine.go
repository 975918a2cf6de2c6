package engine

import "fmt"

// Variant selects which SQL Server image family an instance runs.
type Variant string

const (
	// VariantServer is the full SQL Server engine image.
	VariantServer Variant = "server"

	// VariantEdge is the Azure SQL Edge image (works on arm64 hosts).
	VariantEdge Variant = "edge"
)

const (
	// DefaultPort is the engine's client connection port.
	DefaultPort = 1433

	// BinaryPath is the server executable inside the image. The base image
	// must already contain it; sqlbox only invokes it.
	BinaryPath = "/opt/mssql/bin/sqlservr"

	// DefaultServerImage is the base image for the server variant.
	DefaultServerImage = "mcr.microsoft.com/mssql/server:2019-latest"

	// DefaultEdgeImage is the base image for the edge variant.
	DefaultEdgeImage = "mcr.microsoft.com/azure-sql-edge:latest"
)

// Environment variable names the engine reads at startup.
const (
	EnvAcceptEULA = "ACCEPT_EULA"

	// EnvSAPassword is read by SQL Server 2019+ and SQL Edge.
	EnvSAPassword = "MSSQL_SA_PASSWORD"

	// EnvSAPasswordLegacy is the pre-2019 name. Older image builds read
	// only this one, so both are always set.
	EnvSAPasswordLegacy = "SA_PASSWORD"
)

// ParseVariant converts a config string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantServer, VariantEdge:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("unknown engine variant: %q (must be 'server' or 'edge')", s)
	}
}

// DefaultImage returns the base image reference for the variant.
func (v Variant) DefaultImage() string {
	if v == VariantEdge {
		return DefaultEdgeImage
	}
	return DefaultServerImage
}

// Env assembles the environment variable set the engine requires to start.
// Both SA password names are set; each image ignores the one it doesn't read.
func Env(saPassword string) map[string]string {
	return map[string]string{
		EnvAcceptEULA:       "Y",
		EnvSAPassword:       saPassword,
		EnvSAPasswordLegacy: saPassword,
	}
}
