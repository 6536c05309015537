// =============================================================================
// Stock Adjustment Tool - Main Entry Point
// =============================================================================
//
// USAGE:
//   stockadj                   - Interactive menu
//   stockadj create            - Build one workbook per type and distributor
//   stockadj import outbound   - Upload DCG_*.xlsx to the inventory site
//   stockadj import inbound    - Upload DCT_*.xlsx to the inventory site
//   stockadj version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (config, transform, upload, menu)
//   - pkg/utils/     : Work directory file management
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/stock-adjustment-tool/cmd"
)

func main() {
	cmd.Execute()
}
