package emit

const moduleTemplate = `/**
 * @file {{ .Info.FileName }}
 *
 * This file was generated by fsgen {{ .Info.GeneratorVersion }} {{ .Date }}.
 */

#include "simba.h"
#include <stdarg.h>

const FAR char sysinfo[] = "app:   {{ .SysName }}-{{ .SysVersion }} built {{ .Date }} by {{ .SysUser }}.\r\n"
                           "board: {{ .SysBoard }}\r\n"
                           "mcu:   {{ .SysMCU }}\r\n";

{{ range .Callbacks -}}
extern int {{ . }}(int argc, const char *argv[], void *out_p, void *in_p);
{{ end }}
{{ range .Counters -}}
extern long long COUNTER({{ .Name }});
{{ end }}
{{ range .Parameters -}}
extern {{ .Type }} PARAMETER({{ .Name }});
{{ end }}
{{ range .Strings -}}
static FAR const char {{ .Symbol }}[] = {{ .Literal }};
{{ end }}
const FAR struct fs_node_t fs_nodes[] = {
{{- range .Nodes }}
    /* index: {{ .Index }} */
    {
        .next = {{ .Next }},
        .name_p = {{ .NameSymbol }},
        .children = {
            .begin = {{ .Begin }},
            .end = {{ .End }},
            .len = {{ .Len }}
        },
        .parent = {{ .Parent }},
        .callback = {{ .Callback }}
    },
{{- end }}
};

const FAR int fs_counters[] = {
{{- range .CounterList }}
    {{ . }},
{{- end }}
};

const FAR int fs_parameters[] = {
{{- range .ParameterList }}
    {{ . }},
{{- end }}
};
{{ range .Logs }}
struct {{ .StructName }} {
{{- range .Layout.Fields }}
    {{ .Type.CType }} {{ .Name }};
{{- end }}
};
{{ end }}
{{- range .Logs }}
int {{ .WriteFunc }}(char level, ...)
{
    struct {{ .StructName }} args;
    va_list va;

    va_start(va, level);
{{- range .Layout.Fields }}
    args.{{ .Name }} = va_arg(va, {{ .Type.CType }});
{{- end }}
    va_end(va);

    return (log_write(level, {{ .Identity }}, &args, sizeof(args)));
}
{{ end }}
{{- range .Logs }}
void {{ .FormatFunc }}(chan_t *chan_p, struct {{ .StructName }} *args_p)
{
    std_fprintf(chan_p, FSTR("{{ .Source }}")
{{- range .Layout.Fields }}
    , args_p->{{ .Name }}
{{- end }}
);
}
{{ end }}
void (*log_id_to_format_fn[])(chan_t *, void *) = {
{{- range .Logs }}
    (void (*)(chan_t *, void *)){{ .FormatFunc }},
{{- end }}
};
`
