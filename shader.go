package triangle

import (
	"encoding/binary"
	"os"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SPIRVMagic is the first word of every SPIR-V module
const SPIRVMagic uint32 = 0x07230203

type ShaderModule struct {
	Device         *Device
	Description    string
	VKShaderModule vk.ShaderModule
}

// SPIRVWords checks that code looks like a little endian SPIR-V module and
// returns it as words
func SPIRVWords(code []byte) ([]uint32, error) {
	if len(code) == 0 {
		return nil, errors.New("empty shader module")
	}
	if len(code)%4 != 0 {
		return nil, errors.Newf("shader module size %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	if words[0] != SPIRVMagic {
		return nil, errors.Newf("bad SPIR-V magic 0x%08x", words[0])
	}
	return words, nil
}

func (d *Device) LoadShaderModuleFromFile(file string) (*ShaderModule, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "read shader")
	}
	module, err := d.CreateShaderModule(data)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", file)
	}
	module.Description = file
	return module, nil
}

func (d *Device) CreateShaderModule(code []byte) (*ShaderModule, error) {
	words, err := SPIRVWords(code)
	if err != nil {
		return nil, err
	}

	var module vk.ShaderModule
	err = vk.Error(vk.CreateShaderModule(d.VKDevice, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}, nil, &module))
	if err != nil {
		return nil, errors.Wrap(err, "create shader module")
	}

	return &ShaderModule{Device: d, VKShaderModule: module}, nil
}

func (s *ShaderModule) VKPipelineShaderStageCreateInfo(stage vk.ShaderStageFlagBits, entryPoint string) vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: s.VKShaderModule,
		PName:  safeString(entryPoint),
	}
}

func (s *ShaderModule) Destroy() {
	vk.DestroyShaderModule(s.Device.VKDevice, s.VKShaderModule, nil)
}
