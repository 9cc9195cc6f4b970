package skia

// gnOptions are the skia_* GN arguments exposed as recipe options, with
// their upstream defaults.
var gnOptions = map[string]bool{
	"skia_enable_android_utils":               false,
	"skia_enable_api_available_macro":         true,
	"skia_enable_direct3d_debug_layer":        false,
	"skia_enable_discrete_gpu":                true,
	"skia_enable_flutter_defines":             false,
	"skia_enable_fontmgr_FontConfigInterface": false,
	"skia_enable_fontmgr_android":             false,
	"skia_enable_fontmgr_custom_directory":    false,
	"skia_enable_fontmgr_custom_embedded":     false,
	"skia_enable_fontmgr_custom_empty":        false,
	"skia_enable_fontmgr_empty":               false,
	"skia_enable_fontmgr_fontconfig":          false,
	"skia_enable_fontmgr_fuchsia":             false,
	"skia_enable_fontmgr_win":                 false,
	"skia_enable_fontmgr_win_gdi":             false,
	"skia_enable_gpu":                         true,
	"skia_enable_gpu_debug_layers":            false,
	"skia_enable_graphite":                    false,
	"skia_enable_metal_debug_info":            false,
	"skia_enable_particles":                   true,
	"skia_enable_pdf":                         false,
	"skia_enable_skgpu_v1":                    true,
	"skia_enable_skgpu_v2":                    false,
	"skia_enable_skottie":                     true,
	"skia_enable_skparagraph":                 true,
	"skia_enable_skrive":                      true,
	"skia_enable_skshaper":                    true,
	"skia_enable_sksl":                        true,
	"skia_enable_sktext":                      true,
	"skia_enable_skvm_jit_when_possible":      false,
	"skia_enable_spirv_validation":            false,
	"skia_enable_svg":                         true,
	"skia_enable_tools":                       false,
	"skia_enable_vulkan_debug_layers":         false,
	"skia_enable_winuwp":                      false,
	"skia_use_angle":                          false,
	"skia_use_dawn":                           false,
	"skia_use_direct3d":                       false,
	"skia_use_dng_sdk":                        true,
	"skia_use_egl":                            false,
	"skia_use_expat":                          true,
	"skia_use_experimental_xform":             false,
	"skia_use_ffmpeg":                         false,
	"skia_use_fixed_gamma_text":               false,
	"skia_use_fontconfig":                     false,
	"skia_use_fonthost_mac":                   true,
	"skia_use_freetype":                       false,
	"skia_use_gl":                             true,
	"skia_use_harfbuzz":                       true,
	"skia_use_icu":                            true,
	"skia_use_libfuzzer_defaults":             true,
	"skia_use_libgifcodec":                    true,
	"skia_use_libheif":                        false,
	"skia_use_libjpeg_turbo_decode":           true,
	"skia_use_libjpeg_turbo_encode":           true,
	"skia_use_libpng_decode":                  true,
	"skia_use_libpng_encode":                  true,
	"skia_use_libwebp_decode":                 true,
	"skia_use_libwebp_encode":                 true,
	"skia_use_lua":                            false,
	"skia_use_metal":                          false,
	"skia_use_ndk_images":                     false,
	"skia_use_piex":                           true,
	"skia_use_runtime_icu":                    false,
	"skia_use_sfml":                           false,
	"skia_use_sfntly":                         true,
	"skia_use_system_expat":                   true,
	"skia_use_system_harfbuzz":                true,
	"skia_use_system_icu":                     true,
	"skia_use_system_libjpeg_turbo":           true,
	"skia_use_system_libpng":                  true,
	"skia_use_system_libwebp":                 true,
	"skia_use_system_zlib":                    true,
	"skia_use_vma":                            false,
	"skia_use_vulkan":                         false,
	"skia_use_webgl":                          false,
	"skia_use_wuffs":                          false,
	"skia_use_x11":                            false,
	"skia_use_xps":                            false,
	"skia_use_zlib":                           true,
}

// systemDeps are the packages replacing skia's bundled copies when the
// matching skia_use_system_* option is on.
var systemDeps = []struct {
	option string
	ref    string
}{
	{"skia_use_system_icu", "icu/69.1"},
	{"skia_use_system_libjpeg_turbo", "libjpeg-turbo/2.1.1"},
	{"skia_use_system_harfbuzz", "harfbuzz/3.0.0"},
	{"skia_use_system_libpng", "libpng/1.6.37"},
	{"skia_use_system_libwebp", "libwebp/1.2.1"},
}
