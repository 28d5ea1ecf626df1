package chain

import (
	"fmt"
	"strings"
)

// ChangePathUsage is the usage line of the session command that moves the save directory.
const ChangePathUsage = "ChangePath <path>"

// Help renders the listing printed by the Help command.
func Help() string {
	var generating, processing strings.Builder

	for _, def := range definitions {
		if def.Tag == TagHelp {
			continue
		}

		line := fmt.Sprintf("  %-40s %s\n", def.Usage, def.Description)
		if def.Generating {
			generating.WriteString(line)
		} else {
			processing.WriteString(line)
		}
	}

	var sb strings.Builder

	sb.WriteString("List of available commands:\n\n")
	sb.WriteString("Generating commands:\n")
	sb.WriteString(generating.String())
	sb.WriteString("\nProcessing commands:\n")
	sb.WriteString(processing.String())
	sb.WriteString("\nCommand syntax:\n")
	sb.WriteString("  <Generating command> | <Processing command> | <Processing command>\n\n")
	sb.WriteString("The generating command is mandatory and must come first. Only one generating command is allowed,\n")
	sb.WriteString("the number of processing commands is not limited.\n\n")
	sb.WriteString("During execution, type 'x' and press enter (or hit Ctrl+C) to abort and terminate the program.\n\n")
	sb.WriteString("Other commands:\n")
	fmt.Fprintf(&sb, "  %-40s %s\n", ChangePathUsage, "sets the folder where images are saved")
	fmt.Fprintf(&sb, "  %-40s %s\n", string(TagHelp), "prints this listing")

	return sb.String()
}
