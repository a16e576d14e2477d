package archive

// CopyArchive copies every live entry from src into dst via ReadRawData /
// WriteRawData, preserving flags, hash, and every size field exactly,
// without re-running the codec pipeline. Entries already present in dst
// under the same index are replaced.
func CopyArchive(dst, src *Archive) error {
	for _, entry := range src.EnumerateFiles() {
		raw, err := src.ReadRawData(entry.Index)
		if err != nil {
			return err
		}
		if err := dst.WriteRawData(raw); err != nil {
			return err
		}
	}

	return nil
}
