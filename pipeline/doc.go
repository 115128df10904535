// Package pipeline plans kernel chains from a source frame to a requested
// output format and size.
//
// A Converter holds the target description. Build inspects the source and
// stacks the kernel stages it needs, in this order: unpack, crop, narrow to
// 8 bits, color matrix (at 4:4:4), chroma subsampling, horizontal then
// vertical scaling, edge extension, widen to 16 bits and pack. Stages that
// would not change the frame are skipped.
//
// Basic usage:
//
//	opts := pipeline.NewOptions(format.U8_420, 320, 240)
//	conv, err := pipeline.NewConverter(opts)
//	if err != nil {
//	    return err
//	}
//	dst, _ := frame.New(format.U8_420, 320, 240)
//	if err := conv.Convert(src, dst); err != nil {
//	    return err
//	}
//	log.Println(conv.Stages())
//
// Options can also be read from YAML:
//
//	format: YUYV
//	width: 720
//	height: 576
//	input_matrix: bt709
//	output_matrix: bt601
//	chroma_site: mpeg2
//
// with ParseConfig or LoadConfig followed by Config.Options.
package pipeline
