// Package regdef loads register map definitions from YAML.
//
// A definition file groups registers by peripheral. Register addresses are
// the peripheral base address plus the register's address offset; field
// positions are given as a bit offset and a bit width.
//
//	version: 1
//	device: DEMO
//	peripherals:
//	  - name: TIM1
//	    base_address: 0x40012C00
//	    registers:
//	      - name: CR1
//	        address_offset: 0x00
//	        reset_value: 0x0000
//	        fields:
//	          - name: CEN
//	            bit_offset: 0
//	            bit_width: 1
//	            enum_values:
//	              - {name: Disabled, value: 0}
//	              - {name: Enabled, value: 1}
//
// Parse validates every field against a 16-bit register before returning, so
// a Document that loads successfully always builds a regmodel.Tree.
//
// A small demo map is embedded (Demo) so the tools can run without a file.
package regdef
