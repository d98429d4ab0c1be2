// Package serialization saves and loads model parameters in the .g2d
// checkpoint format.
//
//	Format Structure:
//	  [4 bytes: Magic "G2D1"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata]
//	  [Parameter data: float64 LE, row-major, in header order]
//	  [32 bytes: SHA-256 over header JSON and parameter data]
//
// Only values are stored. Gradients and graph structure are transient and
// never written.
//
// Example usage:
//
//	// Save
//	err := serialization.SaveFile("model.g2d", model.Parameters(), serialization.Header{
//	    ModelType: "MLP",
//	})
//
//	// Load into a model with the same architecture
//	ckpt, err := serialization.LoadFile("model.g2d")
//	if err != nil {
//	    return err
//	}
//	err = serialization.Apply(ckpt, model.Parameters())
package serialization
