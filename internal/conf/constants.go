package conf

// DefaultSize - Default size in bytes of the emulated EEPROM address space
const DefaultSize int = 4096

// DefaultFlashBaseAddress - Default flash address where the emulated EEPROM region starts (1MB offset)
const DefaultFlashBaseAddress uint32 = 0x100000

// DefaultSectorSize - Size of one flash erase sector
const DefaultSectorSize int = 4096

// DefaultConfigAddress - Default EEPROM offset of the configuration record
const DefaultConfigAddress int = 0x00

// DefaultConfigVersion - Default expected version tag of the configuration record
const DefaultConfigVersion uint8 = 1

// ErasedByte - Value of a byte in erased flash, also returned for out of range reads
const ErasedByte uint8 = 0xFF

// HealthProbeByte - Sentinel written to the last byte of the address space during a flash health check
const HealthProbeByte uint8 = 0xAA

// ImageHeaderLength - Length of the header in a flash image file
const ImageHeaderLength int64 = 64

// ImageMagicOffset - Header offset to the image magic - 8 bytes
const ImageMagicOffset int64 = 0

// ImageFlashSizeOffset - Header offset to the flash size - 8 bytes
const ImageFlashSizeOffset int64 = 8

// ImageSectorSizeOffset - Header offset to the sector size - 4 bytes
const ImageSectorSizeOffset int64 = 16

// ImageFileSizeOffset - Header offset to the file size (should of course reflect true file size) - 8 bytes
const ImageFileSizeOffset int64 = 20

// ImageMagic - Magic identifying a flash image file
const ImageMagic string = "EEFLASH1"

// TextHeader - First line of an EEPROM text export
const TextHeader string = "# eeprom"

// TextBytesPerLine - Number of bytes per data line in an EEPROM text export
const TextBytesPerLine int = 16
