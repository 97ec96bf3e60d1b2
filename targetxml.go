package gdbstub

import "strings"

// targetXML is the static target description served by qXfer:features:read.
// It names all 26 registers the register index table defines, independent
// of how many of them "g" actually transfers; this makes visible a
// discrepancy with qSupported's xmlRegisters=arm capability, which a GDB
// client might otherwise read as promising the full register set from "g".
const targetXML = `<?xml version="1.0"?>
<!DOCTYPE target SYSTEM "gdb-target.dtd">
<target>
  <architecture>arm</architecture>
  <feature name="org.gnu.gdb.arm.core">
    <reg name="r0" bitsize="32"/>
    <reg name="r1" bitsize="32"/>
    <reg name="r2" bitsize="32"/>
    <reg name="r3" bitsize="32"/>
    <reg name="r4" bitsize="32"/>
    <reg name="r5" bitsize="32"/>
    <reg name="r6" bitsize="32"/>
    <reg name="r7" bitsize="32"/>
    <reg name="r8" bitsize="32"/>
    <reg name="r9" bitsize="32"/>
    <reg name="r10" bitsize="32"/>
    <reg name="r11" bitsize="32"/>
    <reg name="r12" bitsize="32"/>
    <reg name="sp" bitsize="32" type="data_ptr"/>
    <reg name="lr" bitsize="32"/>
    <reg name="pc" bitsize="32" type="code_ptr"/>
    <reg name="cpsr" bitsize="32" regnum="25"/>
  </feature>
  <feature name="org.gnu.gdb.arm.vfp">
    <reg name="f0" bitsize="32" type="float" regnum="16"/>
    <reg name="f1" bitsize="32" type="float"/>
    <reg name="f2" bitsize="32" type="float"/>
    <reg name="f3" bitsize="32" type="float"/>
    <reg name="f4" bitsize="32" type="float"/>
    <reg name="f5" bitsize="32" type="float"/>
    <reg name="f6" bitsize="32" type="float"/>
    <reg name="f7" bitsize="32" type="float"/>
    <reg name="fpscr" bitsize="32" type="int" group="float"/>
  </feature>
</target>
`

// cmdQXfer implements qXfer:object:read:annex:offset,length. Only the
// "features" object with annex "target.xml" is served; anything else
// replies empty, matching the unknown-command convention used throughout
// dispatch.
func cmdQXfer(s *Server, content string) string {
	// content begins with "qXfer:"
	rest := strings.TrimPrefix(content, "qXfer:")
	parts := strings.SplitN(rest, ":", 4)
	if len(parts) != 4 {
		return replyEmptyBody
	}
	object, op, annex, locator := parts[0], parts[1], parts[2], parts[3]
	if object != "features" || op != "read" || annex != "target.xml" {
		return replyEmptyBody
	}

	comma := strings.IndexByte(locator, ',')
	if comma < 0 {
		return replyEmptyBody
	}
	offset := int(parseHex(locator[:comma]))
	length := int(parseHex(locator[comma+1:]))

	if offset > len(targetXML) {
		return "l"
	}
	end := offset + length
	last := false
	if end >= len(targetXML) {
		end = len(targetXML)
		last = true
	}

	prefix := "m"
	if last {
		prefix = "l"
	}
	return prefix + targetXML[offset:end]
}
